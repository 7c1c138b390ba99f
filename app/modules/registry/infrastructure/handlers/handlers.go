package registryhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	registryservice "github.com/trustvector/scorer/app/modules/registry/application"
	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
)

// RegistryHandlers handles HTTP requests for the scoring registry.
type RegistryHandlers struct {
	service   registryservice.Service
	publicURL string
	logger    *slog.Logger
}

var _ Handlers = (*RegistryHandlers)(nil)

// NewRegistryHandlers creates a new RegistryHandlers instance. publicURL, if
// set, overrides the request host when building pagination links (for
// deployments behind a proxy that rewrites Host).
func NewRegistryHandlers(service registryservice.Service, publicURL string, logger *slog.Logger) *RegistryHandlers {
	return &RegistryHandlers{
		service:   service,
		publicURL: publicURL,
		logger:    logger,
	}
}

// errorResponse is the structured error body every endpoint returns.
type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *RegistryHandlers) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// respondError maps a service error to its HTTP status and detail message.
// Unrecognized errors are logged and surface as an opaque 500.
func (h *RegistryHandlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := http.StatusInternalServerError, "Internal Server Error."

	switch {
	case errors.Is(err, registrydomain.ErrInvalidSigner):
		status, detail = http.StatusBadRequest, "Address does not match signature."
	case errors.Is(err, registrydomain.ErrInvalidNonce):
		status, detail = http.StatusBadRequest, "Invalid nonce."
	case errors.Is(err, registrydomain.ErrInvalidLimit):
		status, detail = http.StatusBadRequest, "Invalid limit."
	case errors.Is(err, registrydomain.ErrInvalidCursor):
		status, detail = http.StatusBadRequest, "Invalid cursor token."
	case errors.Is(err, registrydomain.ErrInvalidCommunityScoreRequest):
		status, detail = http.StatusBadRequest, "Unable to get score for provided scorer."
	case errors.Is(err, registrydomain.ErrNotFound):
		status, detail = http.StatusNotFound, "Not Found."
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}

	h.respond(w, status, errorResponse{Detail: detail})
}

// parseLimit reads the limit query parameter, defaulting to the maximum page
// size like the rest of the API.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return registrydomain.MaxListLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, registrydomain.ErrInvalidLimit
	}
	return limit, nil
}

func parseOffset(r *http.Request) int {
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// pageURL builds an absolute pagination link for the given path, token and
// limit, or nil when the token is empty.
func (h *RegistryHandlers) pageURL(r *http.Request, path, token string, limit int) *string {
	if token == "" {
		return nil
	}

	base := h.publicURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
			scheme = forwarded
		}
		base = scheme + "://" + r.Host
	}

	query := url.Values{}
	query.Set("token", token)
	query.Set("limit", strconv.Itoa(limit))

	link := base + path + "?" + query.Encode()
	return &link
}
