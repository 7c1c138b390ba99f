package registryqueue

// ScorePassportArgs asks the worker pool to recompute the score of one
// address within one community. Args deliberately carry no snapshot of prior
// state; the worker reads everything fresh so repeated executions stay
// idempotent.
type ScorePassportArgs struct {
	CommunityID int64  `json:"community_id"`
	Address     string `json:"address"`
}

// Kind returns the job type identifier for River.
func (ScorePassportArgs) Kind() string { return "score_passport" }
