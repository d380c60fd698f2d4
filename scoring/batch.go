package scoring

import (
	"context"
	"sync"

	"github.com/edgeorch/rater/logger"
	"github.com/edgeorch/rater/util"
	"github.com/gammazero/workerpool"
)

// ScoreAll scores every target with s, running up to parallel scores at once,
// and returns the score of each target by name. It does not rank targets.
//
// Targets which haven't started scoring when ctx is canceled are left out
// of the result.
func ScoreAll(ctx context.Context, s Strategy, targets map[string]Query, parallel int, log *logger.Logger) map[string]float64 {
	if parallel < 1 {
		parallel = 1
	}
	if log != nil {
		log = log.WithFields("cycleID", util.GenID())
		log.Debug("Scoring targets", "count", len(targets), "parallel", parallel)
	}

	var mtx sync.Mutex
	scores := make(map[string]float64, len(targets))

	wp := workerpool.New(parallel)
	for name, q := range targets {
		name, q := name, q
		wp.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			score := s.Score(q)

			mtx.Lock()
			scores[name] = score
			mtx.Unlock()

			if log != nil {
				log.Debug("Scored target", "target", name, "score", logValue(score))
			}
		})
	}
	wp.StopWait()
	return scores
}
