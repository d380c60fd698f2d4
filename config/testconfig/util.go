// Package testconfig contains utilities for generating rater configs for tests.
package testconfig

import (
	"math/rand"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/edgeorch/rater/config"
	"github.com/edgeorch/rater/logger"
)

// TestifyConfig modifies ports, directory paths, etc. to avoid
// conflicts between tests.
func TestifyConfig(conf config.Config) config.Config {
	conf = TempDirConfig(conf)
	conf = RandomPortConfig(conf)

	conf.Monitor.Rate = config.Duration(time.Millisecond * 100)
	conf.Monitor.SampleWindow = config.Duration(time.Millisecond * 10)
	conf.Server.RateLimit = 0
	conf.Logger = logger.DebugConfig()
	return conf
}

// RandomPortConfig returns a modified config with a random HTTP port.
func RandomPortConfig(conf config.Config) config.Config {
	conf.Server.HTTPPort = RandomPort()
	return conf
}

// TempDirConfig returns a modified config with the store paths pointing
// into a new temporary directory.
func TempDirConfig(conf config.Config) config.Config {
	tmp, err := os.MkdirTemp("", "rater-test-")
	if err != nil {
		panic(err)
	}
	conf.Store.BoltDB.Path = path.Join(tmp, "rater.db")
	conf.Store.Badger.Path = path.Join(tmp, "rater.badger.db")
	return conf
}

// RandomPort returns a random port string between 10000 and 40000.
func RandomPort() string {
	min := 10000
	max := 40000
	n := rand.Intn(max-min) + min
	return strconv.Itoa(n)
}
