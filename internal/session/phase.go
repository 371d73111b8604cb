package session

// Phase is a sub-state within a session. The only reachable transition graph
// is Idle → Presenting → AwaitingInput → Evaluating → (Presenting|Complete);
// Start returns a Complete session to Idle before presenting again.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhasePresenting    Phase = "presenting"
	PhaseAwaitingInput Phase = "awaiting_input"
	PhaseEvaluating    Phase = "evaluating"
	PhaseComplete      Phase = "complete"
)
