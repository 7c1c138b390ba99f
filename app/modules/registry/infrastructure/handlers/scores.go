package registryhandlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	accounthandlers "github.com/trustvector/scorer/app/modules/account/infrastructure/handlers"
	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
)

func parseScorerID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "scorerID")
	scorerID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || scorerID <= 0 {
		return 0, registrydomain.ErrNotFound
	}
	return scorerID, nil
}

// HandleGetScore returns the single score a scorer holds for an address,
// scoped to the caller's account.
func (h *RegistryHandlers) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	account, ok := accounthandlers.AccountFromContext(r.Context())
	if !ok {
		h.respond(w, http.StatusUnauthorized, errorResponse{Detail: "Unauthorized."})
		return
	}

	scorerID, err := parseScorerID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	address := strings.ToLower(chi.URLParam(r, "address"))

	view, err := h.service.GetScore(r.Context(), account.ID, scorerID, address)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, view)
}

// HandleListScores returns a limit/offset slice of a scorer's scores,
// optionally filtered to one address.
func (h *RegistryHandlers) HandleListScores(w http.ResponseWriter, r *http.Request) {
	account, ok := accounthandlers.AccountFromContext(r.Context())
	if !ok {
		h.respond(w, http.StatusUnauthorized, errorResponse{Detail: "Unauthorized."})
		return
	}

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
	offset := parseOffset(r)
	address := strings.ToLower(r.URL.Query().Get("address"))

	views, err := h.service.ListScores(r.Context(), account.ID, scorerID, address, limit, offset)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, views)
}
