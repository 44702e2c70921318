package ranking

import (
	"math"
	"testing"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"both empty", nil, nil, 0},
		{"one empty", []string{"cook"}, nil, 0},
		{"identical", []string{"cook", "chef"}, []string{"chef", "cook"}, 1},
		{"disjoint", []string{"cook"}, []string{"farm"}, 0},
		{"half overlap", []string{"software", "developer"}, []string{"software", "developer", "programmer", "coder"}, 0.5},
		{"duplicates ignored", []string{"farm", "farm"}, []string{"farm", "worker"}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Jaccard(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Jaccard(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if rev := Jaccard(tt.b, tt.a); math.Abs(rev-got) > 1e-9 {
				t.Errorf("Jaccard not symmetric: %v vs %v", got, rev)
			}
		})
	}
}
