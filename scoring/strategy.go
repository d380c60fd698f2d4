package scoring

// Strategy scores a candidate target from its resource metrics.
//
// Score is total: missing metrics yield a zero score, never an error or a
// panic. Strategies hold no state between calls, so one value may score
// many targets concurrently.
type Strategy interface {
	Score(q Query) float64
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(q Query) float64

// Score calls f(q).
func (f StrategyFunc) Score(q Query) float64 {
	return f(q)
}
