package behavior

import "xlcheck/internal/schema"

// DefaultCases is used when the schema document carries no behavioral_cases
// section: the canonical 3-4-5 distance check.
func DefaultCases() []schema.Case {
	return []schema.Case{
		{
			Name:      "point_distance",
			Operation: "distance_to",
			P1:        schema.Point{X: 0, Y: 0, Z: 0},
			P2:        schema.Point{X: 3, Y: 4, Z: 0},
			Expected:  5.0,
			Tolerance: schema.DefaultTolerance,
		},
	}
}
