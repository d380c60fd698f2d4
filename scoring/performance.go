package scoring

import (
	"math"
)

// Resource keys read by the Performance strategy.
const (
	NetBandwidth = "network/bandwidth"
	CPUFreq      = "cpu/freq"
	CPUUsage     = "cpu/usage"
	CPUCount     = "cpu/count"
)

// Performance is the default strategy. It combines network bandwidth
// and CPU metrics through independent power-law transforms.
//
// Metrics are queried in the order network/bandwidth, cpu/freq, cpu/usage,
// cpu/count. If any is unavailable the score is 0 and no further metrics
// are queried. Inputs are not validated: zero or negative metrics may
// produce non-finite scores, which are returned as-is.
type Performance struct{}

// Score implements Strategy.
func (Performance) Score(q Query) float64 {
	bw, err := q.Resource(NetBandwidth)
	if err != nil {
		return 0
	}
	net := NetworkScore(bw)

	freq, err := q.Resource(CPUFreq)
	if err != nil {
		return 0
	}
	usage, err := q.Resource(CPUUsage)
	if err != nil {
		return 0
	}
	count, err := q.Resource(CPUCount)
	if err != nil {
		return 0
	}
	cpu := CPUScore(freq, usage, count)

	return (net + cpu) / 2
}

// NetworkScore maps network bandwidth onto a slowly saturating score.
func NetworkScore(bandwidth float64) float64 {
	return 1 / (8770 * math.Pow(bandwidth, -0.9))
}

// CPUScore is the unweighted mean of the frequency, usage and count terms.
func CPUScore(freq, usage, count float64) float64 {
	return (1/(5.66*math.Pow(freq, -0.66)) +
		1/(3.22*math.Pow(usage, -0.241)) +
		1/(4*math.Pow(count, -0.3))) / 3
}

// RenderingScore scores rendering capability. It is not part of the
// Performance score, but is available to strategies that want it.
func RenderingScore(r float64) float64 {
	if r < 0 {
		return 0
	}
	return 0.77 * math.Pow(r, -0.43)
}
