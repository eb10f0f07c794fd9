package achievement

// Params configures achievement derivation.
type Params struct {
	// SprintDays is the number of curriculum days in the sprint, day 0
	// included. Used to decide when the sprint counts as finished.
	SprintDays int

	// StreakLength is the number of consecutive curriculum days, completed
	// on consecutive calendar days, required for the day_streak achievement.
	StreakLength int
}

// DefaultParams returns the production parameters for a standard sprint.
func DefaultParams() *Params {
	return &Params{
		SprintDays:   5,
		StreakLength: 3,
	}
}

// normalize guards against zero values from hand-built params so derivation
// never divides into degenerate rules.
func (p *Params) normalize() Params {
	out := *p
	if out.SprintDays <= 0 {
		out.SprintDays = DefaultParams().SprintDays
	}
	if out.StreakLength < 2 {
		out.StreakLength = DefaultParams().StreakLength
	}
	return out
}
