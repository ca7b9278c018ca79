package trainer

// Mode is the interaction state of the trainer.
type Mode int

const (
	// Idle is the start-up mode: no letter has arrived yet.
	Idle Mode = iota

	// AwaitingAnswer shows a letter and its options.  The joystick moves
	// the cursor and the secondary button submits.
	AwaitingAnswer

	// ShowingFeedback shows the verdict.  Only the primary button is live.
	ShowingFeedback
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case AwaitingAnswer:
		return "awaiting-answer"
	case ShowingFeedback:
		return "showing-feedback"
	}
	return "unknown"
}

// MarshalText lets the mode appear by name in JSON status responses.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
