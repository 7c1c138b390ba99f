package registryhandlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
)

// stampsResponse is the paginated envelope of GET /registry/stamps/{address}.
// Next and prev are absolute URLs, or null at the ends of the walk.
type stampsResponse struct {
	Next  *string                          `json:"next"`
	Prev  *string                          `json:"prev"`
	Items []registrydomain.StampCredential `json:"items"`
}

// HandleGetStamps walks an address's stamps newest-first.
func (h *RegistryHandlers) HandleGetStamps(w http.ResponseWriter, r *http.Request) {
	address := strings.ToLower(chi.URLParam(r, "address"))

	limit, err := parseLimit(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	token := r.URL.Query().Get("token")

	page, err := h.service.GetStamps(r.Context(), address, token, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	path := "/registry/stamps/" + address
	h.respond(w, http.StatusOK, stampsResponse{
		Next:  h.pageURL(r, path, page.NextToken, limit),
		Prev:  h.pageURL(r, path, page.PrevToken, limit),
		Items: page.Stamps,
	})
}
