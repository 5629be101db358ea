package domain

type State string

const (
	StateReceived      State = "received"
	StateAuthenticated State = "authenticated"
	StateValidated     State = "validated"
	StateSkipped       State = "skipped"
	StateFetching      State = "fetching"
	StateAnalyzing     State = "analyzing"
	StatePersisting    State = "persisting"
	StateCompleted     State = "completed"
	StateFailed        State = "failed"
)

// Terminal reports whether no further transition can leave s.
func (s State) Terminal() bool {
	return s == StateSkipped || s == StateCompleted || s == StateFailed
}
