package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestImplied(t *testing.T) {
	tests := []struct {
		name     string
		odds     *float64
		expected *float64
	}{
		{"even money", ptr(2.0), ptr(0.5)},
		{"long shot", ptr(4.0), ptr(0.25)},
		{"missing", nil, nil},
		{"zero", ptr(0.0), nil},
		{"negative", ptr(-1.5), nil},
		{"below epsilon", ptr(1e-12), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Implied(tt.odds)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 1e-9)
		})
	}
}

func TestNormalizeSumsToOne(t *testing.T) {
	tests := []struct {
		name string
		in   []*float64
	}{
		{"full book", []*float64{ptr(0.5), ptr(0.2), ptr(0.35)}},
		{"one missing leg", []*float64{ptr(0.5), nil, ptr(0.2857)}},
		{"two missing legs", []*float64{nil, nil, ptr(0.4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalize(tt.in...)
			sum := 0.0
			for _, v := range out {
				sum += v
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		})
	}
}

func TestNormalizeAllMissing(t *testing.T) {
	out := Normalize(nil, nil, nil)
	assert.Equal(t, []float64{0, 0, 0}, out)
}

func TestValue(t *testing.T) {
	v := Value(0.55, ptr(0.5))
	require.NotNil(t, v)
	assert.InDelta(t, 0.05, *v, 1e-9)

	assert.Nil(t, Value(0.55, nil))
}

func TestExpectedValue(t *testing.T) {
	ev := ExpectedValue(0.55, ptr(2.0))
	require.NotNil(t, ev)
	assert.InDelta(t, 0.10, *ev, 1e-9)

	assert.Nil(t, ExpectedValue(0.55, nil))
	assert.Nil(t, ExpectedValue(0.55, ptr(0.0)))
}

func TestComplete(t *testing.T) {
	assert.True(t, Complete(ptr(2.0), ptr(3.5), ptr(4.1)))
	assert.False(t, Complete(ptr(2.0), nil, ptr(4.1)))
	assert.False(t, Complete(ptr(2.0), ptr(0.0)))
}

// Worked example from the value pipeline: odds (2.0, missing, 3.5) against
// model probabilities (0.55, 0.10, 0.35).
func TestPipelineWorkedExample(t *testing.T) {
	impHome := Implied(ptr(2.0))
	impDraw := Implied(nil)
	impAway := Implied(ptr(3.5))

	require.NotNil(t, impHome)
	assert.Nil(t, impDraw)
	require.NotNil(t, impAway)
	assert.InDelta(t, 0.285714, *impAway, 1e-6)

	norm := Normalize(impHome, impDraw, impAway)
	assert.InDelta(t, 0.636364, norm[0], 1e-6)
	assert.Equal(t, 0.0, norm[1])
	assert.InDelta(t, 0.363636, norm[2], 1e-6)

	valueHome := Value(0.55, &norm[0])
	valueAway := Value(0.35, &norm[2])
	require.NotNil(t, valueHome)
	require.NotNil(t, valueAway)

	// Draw has no price, so value is undefined there.
	assert.Nil(t, Value(0.10, nil))

	assert.InDelta(t, -0.086364, *valueHome, 1e-6)
	assert.InDelta(t, -0.013636, *valueAway, 1e-6)

	// "Best" is relative: away is the least-negative delta.
	assert.Greater(t, *valueAway, *valueHome)
}
