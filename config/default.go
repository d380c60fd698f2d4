package config

import (
	"os"
	"path"
	"time"

	"github.com/edgeorch/rater/logger"
)

// DefaultConfig returns configuration with simple defaults.
func DefaultConfig() Config {
	cwd, _ := os.Getwd()
	workDir := path.Join(cwd, "rater-work-dir")

	return Config{
		Scoring: Scoring{
			Strategy: "performance",
		},
		Monitor: Monitor{
			Rate:         Duration(time.Second * 5),
			SampleWindow: Duration(time.Second),
		},
		Store: Store{
			Backend: "memory",
			BoltDB: BoltDB{
				Path: path.Join(workDir, "rater.db"),
			},
			Badger: Badger{
				Path: path.Join(workDir, "rater.badger.db"),
			},
		},
		Server: Server{
			HostName:  "localhost",
			HTTPPort:  "8000",
			RateLimit: 50,
			RateBurst: 10,
		},
		Logger: logger.DefaultConfig(),
	}
}
