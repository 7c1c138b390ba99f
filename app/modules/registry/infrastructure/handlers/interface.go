package registryhandlers

import "net/http"

// Handlers is the HTTP surface of the scoring registry.
type Handlers interface {
	HandleSigningMessage(w http.ResponseWriter, r *http.Request)
	HandleSubmitPassport(w http.ResponseWriter, r *http.Request)
	HandleGetScore(w http.ResponseWriter, r *http.Request)
	HandleListScores(w http.ResponseWriter, r *http.Request)
	HandleGetStamps(w http.ResponseWriter, r *http.Request)
	HandleScoresAnalytics(w http.ResponseWriter, r *http.Request)
	HandleCommunityScoresAnalytics(w http.ResponseWriter, r *http.Request)
}
