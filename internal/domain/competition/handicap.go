package competition

// MatchWeight returns the race lengths for two ratings, ordered like the
// arguments. The higher rating gets the longer race; ties favour a.
func (r Rules) MatchWeight(a, b int) (int, int) {
	gap := a - b
	if gap < 0 {
		gap = -gap
	}

	high, low := r.OverflowHigh, r.OverflowLow
	for _, tier := range r.HandicapTiers {
		if gap <= tier.MaxGap {
			high, low = tier.High, tier.Low
			break
		}
	}

	if a >= b {
		return high, low
	}
	return low, high
}

// MatchWeight applies the default rules.
func MatchWeight(a, b int) (int, int) {
	return defaultRules.MatchWeight(a, b)
}
