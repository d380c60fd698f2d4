package scoring

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Query backed by a map, which records the keys it was asked for.
type recorder struct {
	mtx     sync.Mutex
	values  map[string]float64
	queried []string
}

func newRecorder(values map[string]float64) *recorder {
	return &recorder{values: values}
}

func (r *recorder) Resource(key string) (float64, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.queried = append(r.queried, key)
	v, ok := r.values[key]
	if !ok {
		return 0, Unavailable(key, nil)
	}
	return v, nil
}

func fullMetrics() map[string]float64 {
	return map[string]float64{
		NetBandwidth: 100,
		CPUFreq:      2.5,
		CPUUsage:     0.5,
		CPUCount:     4,
	}
}

func TestPerformanceScore(t *testing.T) {
	q := newRecorder(fullMetrics())
	score := Performance{}.Score(q)

	net := 1 / (8770 * math.Pow(100, -0.9))
	freq := 1 / (5.66 * math.Pow(2.5, -0.66))
	usage := 1 / (3.22 * math.Pow(0.5, -0.241))
	count := 1 / (4 * math.Pow(4, -0.3))
	cpu := (freq + usage + count) / 3
	expected := (net + cpu) / 2

	assert.InEpsilon(t, expected, score, 1e-9)
	assert.InEpsilon(t, 0.16445955510433763, score, 1e-9)
	assert.Equal(t, []string{NetBandwidth, CPUFreq, CPUUsage, CPUCount}, q.queried)
}

func TestPerformanceDeterministic(t *testing.T) {
	a := Performance{}.Score(newRecorder(fullMetrics()))
	b := Performance{}.Score(newRecorder(fullMetrics()))
	assert.Equal(t, a, b)
}

func TestPerformanceShortCircuit(t *testing.T) {
	order := []string{NetBandwidth, CPUFreq, CPUUsage, CPUCount}

	for i, missing := range order {
		t.Run(missing, func(t *testing.T) {
			m := fullMetrics()
			delete(m, missing)
			q := newRecorder(m)

			assert.Equal(t, 0.0, Performance{}.Score(q))
			// Nothing after the missing key is queried.
			assert.Equal(t, order[:i+1], q.queried)
		})
	}
}

func TestPerformanceAnyErrorIsUnavailable(t *testing.T) {
	q := QueryFunc(func(key string) (float64, error) {
		if key == CPUCount {
			return 42, errors.New("permission denied")
		}
		return 1, nil
	})
	assert.Equal(t, 0.0, Performance{}.Score(q))
}

func TestNetworkScoreMonotonic(t *testing.T) {
	prev := NetworkScore(0.1)
	for _, bw := range []float64{1, 2, 10, 100, 1000, 1e6} {
		cur := NetworkScore(bw)
		assert.Greater(t, cur, prev, "bandwidth %v", bw)
		prev = cur
	}

	m := fullMetrics()
	low := Performance{}.Score(newRecorder(m))
	m[NetBandwidth] = 200
	high := Performance{}.Score(newRecorder(m))
	assert.Greater(t, high, low)
}

func TestPerformanceDegenerateInput(t *testing.T) {
	m := fullMetrics()
	m[NetBandwidth] = -1
	score := Performance{}.Score(newRecorder(m))
	assert.True(t, math.IsNaN(score), "expected NaN, got %v", score)
}

func TestNetworkScoreZeroBandwidth(t *testing.T) {
	assert.Equal(t, 0.0, NetworkScore(0))

	m := fullMetrics()
	m[NetBandwidth] = 0
	score := Performance{}.Score(newRecorder(m))
	assert.InEpsilon(t, CPUScore(2.5, 0.5, 4)/2, score, 1e-12)
	assert.InEpsilon(t, 0.16086230684618375, score, 1e-9)
}

func TestRenderingScore(t *testing.T) {
	assert.Equal(t, 0.0, RenderingScore(-1))
	assert.InEpsilon(t, 0.77*math.Pow(4, -0.43), RenderingScore(4), 1e-12)
	assert.InEpsilon(t, 0.42423346961249514, RenderingScore(4), 1e-9)
	assert.True(t, math.IsInf(RenderingScore(0), 1))
}

func TestWeightedSum(t *testing.T) {
	q := newRecorder(map[string]float64{"a": 4, "b": 5})

	zero, err := NewWeightedSum([]string{"a", "b"}, []float64{2, 3}, MissingZero)
	require.NoError(t, err)
	assert.Equal(t, 23.0, zero.Score(q))

	abort, err := NewWeightedSum([]string{"a", "b"}, []float64{2, 3}, MissingAbort)
	require.NoError(t, err)
	assert.Equal(t, 23.0, abort.Score(q))
}

func TestWeightedSumAbortOnSecondKey(t *testing.T) {
	w, err := NewWeightedSum([]string{"a", "b"}, []float64{2, 3}, MissingAbort)
	require.NoError(t, err)
	q := newRecorder(map[string]float64{"a": 4})
	assert.Equal(t, 0.0, w.Score(q))
	assert.Equal(t, []string{"a", "b"}, q.queried)
}

func TestWeightedSumMismatchedLiteral(t *testing.T) {
	w := &WeightedSum{Keys: []string{"a", "b"}, Weights: []float64{2}, Missing: MissingZero}
	q := QueryFunc(func(string) (float64, error) { return 1, nil })
	assert.NotPanics(t, func() {
		assert.Equal(t, 0.0, w.Score(q))
	})

	w = &WeightedSum{Keys: []string{"a"}, Weights: []float64{2, 3}}
	assert.Equal(t, 0.0, w.Score(q))
}

func TestWeightedSumMissing(t *testing.T) {
	keys := []string{"a", "b", "c"}
	weights := []float64{2, 3, 4}

	abort, err := NewWeightedSum(keys, weights, MissingAbort)
	require.NoError(t, err)
	q := newRecorder(map[string]float64{"a": 4, "c": 1})
	assert.Equal(t, 0.0, abort.Score(q))
	assert.Equal(t, []string{"a", "b"}, q.queried)

	zero, err := NewWeightedSum(keys, weights, MissingZero)
	require.NoError(t, err)
	q = newRecorder(map[string]float64{"a": 4, "c": 1})
	assert.Equal(t, 12.0, zero.Score(q))
	assert.Equal(t, keys, q.queried)
}

func TestNewWeightedSumErrors(t *testing.T) {
	_, err := NewWeightedSum(nil, nil, MissingAbort)
	assert.Error(t, err)
	_, err = NewWeightedSum([]string{"a", "b"}, []float64{1}, MissingAbort)
	assert.Error(t, err)
}

func TestNewWeightedSumCopies(t *testing.T) {
	keys := []string{"a"}
	weights := []float64{2}
	w, err := NewWeightedSum(keys, weights, MissingAbort)
	require.NoError(t, err)
	weights[0] = 100
	assert.Equal(t, 8.0, w.Score(newRecorder(map[string]float64{"a": 4})))
}

func TestParseMissingPolicy(t *testing.T) {
	for in, expected := range map[string]MissingPolicy{
		"":      MissingAbort,
		"abort": MissingAbort,
		"zero":  MissingZero,
	} {
		p, err := ParseMissingPolicy(in)
		require.NoError(t, err)
		assert.Equal(t, expected, p)
	}
	_, err := ParseMissingPolicy("skip")
	assert.Error(t, err)
	assert.Equal(t, "zero", MissingZero.String())
}

func TestLinearPresets(t *testing.T) {
	assert.Len(t, Linear().Keys, 6)
	assert.Len(t, LinearCompact().Keys, 4)
	assert.Equal(t, Linear().Keys[:4], LinearCompact().Keys)

	values := map[string]float64{}
	for _, k := range Linear().Keys {
		values[k] = 1
	}
	var sum float64
	for _, w := range Linear().Weights {
		sum += w
	}
	assert.InEpsilon(t, sum, Linear().Score(newRecorder(values)), 1e-12)
}

func TestUnavailableError(t *testing.T) {
	cause := errors.New("sensor absent")
	err := Unavailable("cpu/freq", cause)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "cpu/freq")
	assert.True(t, errors.Is(Unavailable("x", nil), ErrUnavailable))
}
