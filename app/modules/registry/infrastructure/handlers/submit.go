package registryhandlers

import (
	"encoding/json"
	"net/http"

	accounthandlers "github.com/trustvector/scorer/app/modules/account/infrastructure/handlers"
	registryservice "github.com/trustvector/scorer/app/modules/registry/application"
)

// signingMessageResponse is the body of GET /registry/signing-message.
type signingMessageResponse struct {
	Message string `json:"message"`
	Nonce   string `json:"nonce"`
}

// submitPassportRequest is the body of POST /registry/submit-passport.
// scorer_id is accepted as either a JSON number or a numeric string, which
// is what wallet tooling in the wild actually sends.
type submitPassportRequest struct {
	Address   string      `json:"address"`
	ScorerID  json.Number `json:"scorer_id"`
	Community json.Number `json:"community"`
	Nonce     string      `json:"nonce"`
	Signature string      `json:"signature"`
}

// HandleSigningMessage issues a signing message and nonce pair.
func (h *RegistryHandlers) HandleSigningMessage(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SigningMessage(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, signingMessageResponse{
		Message: result.Message,
		Nonce:   result.Nonce,
	})
}

// HandleSubmitPassport validates and stores a submission, enqueues scoring
// and returns the provisional PROCESSING score view.
func (h *RegistryHandlers) HandleSubmitPassport(w http.ResponseWriter, r *http.Request) {
	account, ok := accounthandlers.AccountFromContext(r.Context())
	if !ok {
		h.respond(w, http.StatusUnauthorized, errorResponse{Detail: "Unauthorized."})
		return
	}

	var req submitPassportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, errorResponse{Detail: "Invalid request body."})
		return
	}

	scorerRef := req.ScorerID
	if scorerRef == "" {
		scorerRef = req.Community
	}
	scorerID, err := scorerRef.Int64()
	if err != nil || scorerID <= 0 {
		h.respond(w, http.StatusBadRequest, errorResponse{Detail: "Invalid scorer_id."})
		return
	}

	view, err := h.service.SubmitPassport(r.Context(), account.ID, registryservice.SubmitPassportPayload{
		Address:   req.Address,
		ScorerID:  scorerID,
		Nonce:     req.Nonce,
		Signature: req.Signature,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, view)
}
