package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Describe(nil))
	assert.Equal(t, Summary{}, Describe([]float64{}))
}

func TestDescribeEvenCount(t *testing.T) {
	s := Describe([]float64{1, 2, 3, 4})

	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 10.0, s.Sum)
	assert.Equal(t, 2.5, s.Mean)
	assert.Equal(t, 2.5, s.Median)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, 1.25, s.Variance)
	assert.InDelta(t, math.Sqrt(1.25), s.StdDev, 1e-12)
	assert.Equal(t, 4.0, s.P95)
}

func TestDescribeOddCountUnsorted(t *testing.T) {
	input := []float64{5, 1, 3}
	s := Describe(input)

	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, []float64{5, 1, 3}, input, "input must not be reordered")
}

func TestDescribeSingleSample(t *testing.T) {
	s := Describe([]float64{7.5})

	assert.Equal(t, Summary{
		Count:  1,
		Sum:    7.5,
		Mean:   7.5,
		Min:    7.5,
		Max:    7.5,
		Median: 7.5,
		P95:    7.5,
	}, s)
}

func TestNearestRank(t *testing.T) {
	hundred := make([]float64, 100)
	for i := range hundred {
		hundred[i] = float64(i + 1)
	}

	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 95, 0},
		{"p95 of 100", hundred, 95, 95},
		{"p50 of 100", hundred, 50, 50},
		{"p100 clamps", hundred, 100, 100},
		{"p0 clamps to first", hundred, 0, 1},
		{"p95 of 20", hundred[:20], 95, 19},
		{"p95 of 10", hundred[:10], 95, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NearestRank(tt.sorted, tt.p))
		})
	}
}
