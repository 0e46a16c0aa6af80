package register

import (
	"testing"

	"github.com/vbillys/FeatureBasedAlignment/cloud"
)

func TestIsSampleGood(t *testing.T) {
	c := cloud.Cloud{
		{X: 0, Y: 0, Z: 0},   // 0
		{X: 1, Y: 0, Z: 0},   // 1
		{X: 0, Y: 1, Z: 0},   // 2
		{X: 2, Y: 0, Z: 0},   // 3: collinear with 0 and 1
		{X: 0, Y: 0, Z: 0},   // 4: coincident with 0
		{X: 1, Y: 1e-9, Z: 0}, // 5: nearly coincident with 1
	}
	m := NewModel(c)

	cases := []struct {
		name   string
		sample []int
		want   bool
	}{
		{"triangle", []int{0, 1, 2}, true},
		{"collinear", []int{0, 1, 3}, false},
		{"coincident", []int{0, 4, 2}, false},
		{"nearly coincident", []int{0, 1, 5}, false},
		{"too short", []int{0, 1}, false},
		{"out of range", []int{0, 1, 99}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.IsSampleGood(tc.sample); got != tc.want {
				t.Errorf("IsSampleGood(%v) = %v, want %v", tc.sample, got, tc.want)
			}
		})
	}
}

func TestIsSampleGoodIsPure(t *testing.T) {
	m := NewModel(unitSquare())
	sample := []int{0, 1, 2}
	first := m.IsSampleGood(sample)
	for i := 0; i < 5; i++ {
		if m.IsSampleGood(sample) != first {
			t.Fatal("IsSampleGood must be a pure predicate")
		}
	}
}
