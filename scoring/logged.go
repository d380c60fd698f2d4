package scoring

import (
	"math"
	"strconv"

	"github.com/edgeorch/rater/logger"
)

// Logged wraps a strategy so that every resource query and the resulting
// score are written to log at debug level.
func Logged(name string, s Strategy, log *logger.Logger) Strategy {
	log = log.WithFields("strategy", name)
	return StrategyFunc(func(q Query) float64 {
		score := s.Score(QueryFunc(func(key string) (float64, error) {
			v, err := q.Resource(key)
			if err != nil {
				log.Debug("Resource unavailable", "key", key, "error", err)
			} else {
				log.Debug("Resource", "key", key, "value", logValue(v))
			}
			return v, err
		}))
		log.Debug("Score", "score", logValue(score))
		return score
	})
}

// logValue keeps non-finite numbers loggable by the JSON formatter.
func logValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return v
}
