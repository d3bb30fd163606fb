package pool

import "time"

// ValidPick reports whether p is one of the three accepted picks.
func ValidPick(p Pick) bool {
	switch p {
	case PickHome, PickDraw, PickAway:
		return true
	}
	return false
}

// Outcome derives the result pick from a final score.
func Outcome(homeScore, awayScore int) Pick {
	switch {
	case homeScore > awayScore:
		return PickHome
	case homeScore < awayScore:
		return PickAway
	default:
		return PickDraw
	}
}

// HasResult reports whether the match has a usable final score.
func (m Match) HasResult() bool {
	return m.Status == MatchStatusFinished && m.HomeScore != nil && m.AwayScore != nil
}

// Evaluate scores a pick against the match. The second return is false when
// the match has no final score yet, in which case the pick stays unscored.
func (m Match) Evaluate(p Pick) (correct bool, scored bool) {
	if !m.HasResult() {
		return false, false
	}
	return Outcome(*m.HomeScore, *m.AwayScore) == p, true
}

// AcceptsPredictions reports whether picks may still be submitted at the
// given instant. A past deadline closes the pool to picks even while its
// status is still open.
func (q Pool) AcceptsPredictions(now time.Time) bool {
	if q.Status != StatusOpen {
		return false
	}
	return q.Deadline == nil || now.Before(*q.Deadline)
}

// AcceptsParticipants reports whether new members may still join.
func (q Pool) AcceptsParticipants() bool {
	return q.Status == StatusOpen
}

// AllFinished reports whether every match has reached a final state. An
// empty slate counts as finished so a pool with no matches can settle.
func AllFinished(matches []Match) bool {
	for _, m := range matches {
		if m.Status != MatchStatusFinished {
			return false
		}
	}
	return true
}

// Score recomputes per-user totals from scratch. It returns the correctness
// of every prediction that has a scorable match and the resulting point
// totals, counting one point per correct pick.
func Score(matches []Match, predictions []Prediction) (results []Prediction, totals map[int64]int) {
	byMatch := make(map[int64]Match, len(matches))
	for _, m := range matches {
		byMatch[m.ID] = m
	}

	results = make([]Prediction, 0, len(predictions))
	totals = make(map[int64]int)

	for _, p := range predictions {
		if _, seen := totals[p.UserID]; !seen {
			totals[p.UserID] = 0
		}

		m, ok := byMatch[p.MatchID]
		if !ok {
			continue
		}
		correct, scored := m.Evaluate(p.Pick)
		if !scored {
			p.Correct = nil
			results = append(results, p)
			continue
		}

		p.Correct = &correct
		results = append(results, p)
		if correct {
			totals[p.UserID]++
		}
	}

	return results, totals
}
