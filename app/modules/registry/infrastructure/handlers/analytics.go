package registryhandlers

import (
	"net/http"
	"strconv"
	"strings"

	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
)

// scoresAnalyticsResponse is the paginated envelope of the analytics
// endpoints. Items walk ascending by internal id.
type scoresAnalyticsResponse struct {
	Next  *string                    `json:"next"`
	Prev  *string                    `json:"prev"`
	Items []registrydomain.ScoreView `json:"items"`
}

// HandleScoresAnalytics walks every score across all scorers, ascending.
// Researcher-only.
func (h *RegistryHandlers) HandleScoresAnalytics(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	token := r.URL.Query().Get("token")

	page, err := h.service.ListScoresAnalytics(r.Context(), token, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, scoresAnalyticsResponse{
		Next:  h.pageURL(r, "/analytics/score/", page.NextToken, limit),
		Prev:  h.pageURL(r, "/analytics/score/", page.PrevToken, limit),
		Items: page.Scores,
	})
}

// HandleCommunityScoresAnalytics walks one scorer's scores ascending,
// optionally filtered to a single address. Researcher-only.
func (h *RegistryHandlers) HandleCommunityScoresAnalytics(w http.ResponseWriter, r *http.Request) {
	scorerID, err := parseScorerID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	token := r.URL.Query().Get("token")
	address := strings.ToLower(r.URL.Query().Get("address"))

	page, err := h.service.ListCommunityScoresAnalytics(r.Context(), scorerID, address, token, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	path := "/analytics/score/" + strconv.FormatInt(scorerID, 10)
	h.respond(w, http.StatusOK, scoresAnalyticsResponse{
		Next:  h.pageURL(r, path, page.NextToken, limit),
		Prev:  h.pageURL(r, path, page.PrevToken, limit),
		Items: page.Scores,
	})
}
