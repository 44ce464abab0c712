package vote

import "github.com/ayang007/flora-fauna/internal/domain"

// Transition is the toggle state machine over {absent, liked, disliked}.
// Repeating the current direction retracts the vote; anything else moves
// to op. The delta is always the signed difference between the new and
// old vote weight, so the target's rating stays the sum of all recorded
// directions:
//
//	absent   + like    -> liked    (+1)
//	absent   + dislike -> disliked (-1)
//	liked    + like    -> absent   (-1)
//	liked    + dislike -> disliked (-2)
//	disliked + dislike -> absent   (+1)
//	disliked + like    -> liked    (+2)
//
// The Redis toggle script mirrors this table; keep the two in sync.
func Transition(current, op domain.Direction) (next domain.Direction, delta int64) {
	if current == op {
		next = domain.DirectionAbsent
	} else {
		next = op
	}
	return next, next.Weight() - current.Weight()
}
