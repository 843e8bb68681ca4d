package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverage(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   *float64
	}{
		{name: "empty", values: nil, want: nil},
		{name: "single", values: []float64{42}, want: Ptr(42)},
		{name: "several", values: []float64{1, 2, 3, 4}, want: Ptr(2.5)},
		{name: "negative", values: []float64{-10, 10, 30}, want: Ptr(10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Average(tt.values)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   *float64
	}{
		{name: "empty", values: []float64{}, want: nil},
		{name: "single", values: []float64{7}, want: Ptr(7)},
		{name: "odd length", values: []float64{1, 3, 5}, want: Ptr(3)},
		{name: "even length", values: []float64{1, 2, 3, 4}, want: Ptr(2.5)},
		{name: "unsorted", values: []float64{9, 1, 5}, want: Ptr(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Median(tt.values)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestMedian_DoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestSummarize(t *testing.T) {
	assert.Nil(t, Summarize(nil))

	s := Summarize([]float64{10, 22, 1})
	require.NotNil(t, s)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 22.0, s.Max)
	assert.Equal(t, 11.0, s.Avg)
	assert.Equal(t, 10.0, s.Median)

	s = Summarize([]float64{1, 2, 2})
	require.NotNil(t, s)
	assert.Equal(t, 1.67, s.Avg)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 2.35, Round(2.345, 2))
	assert.Equal(t, 1235.0, Round(1234.5, 0))
	assert.Equal(t, 0.333, Round(1.0/3.0, 3))
	assert.Nil(t, RoundPtr(nil, 2))
	assert.Equal(t, 1.5, *RoundPtr(Ptr(1.499), 2))
}

func TestRound_NonFinite(t *testing.T) {
	assert.True(t, math.IsInf(Round(math.Inf(1), 2), 1))
	assert.True(t, math.IsInf(Round(math.Inf(-1), 0), -1))
	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))

	// finite inputs whose average overflows
	avg := Average([]float64{1.5e308, 1.5e308})
	require.NotNil(t, avg)
	assert.NotPanics(t, func() { RoundPtr(avg, 0) })
	assert.NotPanics(t, func() { Summarize([]float64{1.5e308, 1.5e308}) })
}
