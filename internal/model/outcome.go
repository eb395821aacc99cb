package model

// Outcome is a human-friendly summary of how a firm's offer fared in a round.
// Keep these values stable; they are intended for CSV output.
type Outcome string

const (
	OutcomeSoldOut Outcome = "SOLD_OUT"
	OutcomePartial Outcome = "PARTIAL"
	OutcomeUnsold  Outcome = "UNSOLD"
	OutcomeIdle    Outcome = "IDLE"
)

func OutcomeFromSales(sold, offered float64) Outcome {
	switch {
	case offered <= 0:
		return OutcomeIdle
	case sold >= offered:
		return OutcomeSoldOut
	case sold > 0:
		return OutcomePartial
	default:
		return OutcomeUnsold
	}
}
