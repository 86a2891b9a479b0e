package calculator

// ParticipantTotal is one participant's contribution to a shared session.
type ParticipantTotal struct {
	ParticipantID string
	Subtotal      float64
}

// ParticipantSummary aggregates the participants of one shared session.
type ParticipantSummary struct {
	Participants          int
	GrandTotal            float64
	PerParticipantAverage float64 // 0 when there are no participants
}

// SummarizeParticipants folds participant subtotals into a session summary.
//
// Algorithm:
//   - grand_total = Σ subtotal
//   - per_participant_average = grand_total / participants
func SummarizeParticipants(totals []ParticipantTotal) ParticipantSummary {
	summary := ParticipantSummary{Participants: len(totals)}
	for _, t := range totals {
		summary.GrandTotal += t.Subtotal
	}
	if summary.Participants > 0 {
		summary.PerParticipantAverage = summary.GrandTotal / float64(summary.Participants)
	}
	return summary
}
