// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package squares

import "github.com/danielhkuo/superb-owl/models"

// DetectQuarterTransition reports the quarter that ended between previous and
// current. A period moving from N to anything greater finalizes quarter N, so
// regulation-to-overtime (4 -> 5) finalizes quarter 4. There is no transition
// on the first poll or when the period holds or goes backwards.
func DetectQuarterTransition(previous *models.GameSnapshot, current models.GameSnapshot) (int, bool) {
	if previous == nil {
		return 0, false
	}
	if current.Period <= previous.Period {
		return 0, false
	}
	return previous.Period, true
}

// SkippedQuarters lists every quarter from previous up to (not including)
// current. It is only used when skipped-period finalization is enabled.
func SkippedQuarters(previous *models.GameSnapshot, current models.GameSnapshot) []int {
	first, ok := DetectQuarterTransition(previous, current)
	if !ok {
		return nil
	}
	quarters := make([]int, 0, current.Period-first)
	for q := first; q < current.Period; q++ {
		quarters = append(quarters, q)
	}
	return quarters
}
