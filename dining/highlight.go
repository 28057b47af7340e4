package dining

// Highlight names the part of the algorithm that the last tick exercised.
type Highlight string

// The highlight values. Each transition is highlighted by the state it
// leaves.
const (
	HighlightMain     Highlight = "MAIN"
	HighlightThinking Highlight = "THINKING"
	HighlightHungry   Highlight = "HUNGRY"
	HighlightEating   Highlight = "EATING"
	HighlightSleeping Highlight = "SLEEPING"
	HighlightMonitor  Highlight = "MONITOR"
)

func highlightLeaving(s State) Highlight {
	switch s {
	case StateThinking:
		return HighlightThinking
	case StateHungry:
		return HighlightHungry
	case StateEating:
		return HighlightEating
	case StateSleeping:
		return HighlightSleeping
	default:
		return HighlightMonitor
	}
}
