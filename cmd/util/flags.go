package util

import (
	"strings"

	"github.com/edgeorch/rater/config"
	"github.com/spf13/pflag"
)

func normalize(name string) string {
	from := []string{"-", "_"}
	to := "."
	for _, sep := range from {
		name = strings.Replace(name, sep, to, -1)
	}
	return strings.ToLower(name)
}

// NormalizeFlags allows for flags to be case and separator insensitive.
// Use it by passing it to cobra.Command.SetGlobalNormalizationFunc
func NormalizeFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	lookup := map[string]string{"help": "help", normalize(name): name}

	f.VisitAll(func(f *pflag.Flag) {
		lookup[normalize(f.Name)] = f.Name
	})

	return pflag.NormalizedName(lookup[normalize(name)])
}

// ServeFlags returns a new flag set for configuring the rater server.
func ServeFlags(flagConf *config.Config, configFile *string) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVarP(configFile, "config", "c", *configFile, "Config File")

	f.AddFlagSet(scoringFlags(flagConf))
	f.AddFlagSet(monitorFlags(flagConf))
	f.AddFlagSet(storeFlags(flagConf))
	f.AddFlagSet(serverFlags(flagConf))
	f.AddFlagSet(loggerFlags(flagConf))

	return f
}

// ScoreFlags returns a new flag set for one-shot scoring.
func ScoreFlags(flagConf *config.Config, configFile *string) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVarP(configFile, "config", "c", *configFile, "Config File")

	f.AddFlagSet(scoringFlags(flagConf))
	f.AddFlagSet(loggerFlags(flagConf))

	return f
}

func scoringFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVar(&flagConf.Scoring.Strategy, "Scoring.Strategy", flagConf.Scoring.Strategy, "Name of the scoring strategy")

	return f
}

func monitorFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.BoolVar(&flagConf.Monitor.Disabled, "Monitor.Disabled", flagConf.Monitor.Disabled, "Don't sample the resources of this device")
	f.Var(&flagConf.Monitor.Rate, "Monitor.Rate", "How often resources are sampled")
	f.Var(&flagConf.Monitor.SampleWindow, "Monitor.SampleWindow", "Interval used to measure cpu usage and network throughput")

	return f
}

func storeFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVar(&flagConf.Store.Backend, "Store.Backend", flagConf.Store.Backend, "Resource store backend. One of ['memory', 'boltdb', 'badger']")
	f.StringVar(&flagConf.Store.BoltDB.Path, "Store.BoltDB.Path", flagConf.Store.BoltDB.Path, "Path to BoltDB database")
	f.StringVar(&flagConf.Store.Badger.Path, "Store.Badger.Path", flagConf.Store.Badger.Path, "Path to Badger database directory")
	f.Var(&flagConf.Store.MaxAge, "Store.MaxAge", "Resource samples older than this are unavailable")

	return f
}

func serverFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVar(&flagConf.Server.HostName, "Server.HostName", flagConf.Server.HostName, "Host name or IP")
	f.StringVar(&flagConf.Server.HTTPPort, "Server.HTTPPort", flagConf.Server.HTTPPort, "HTTP Port")
	f.Float64Var(&flagConf.Server.RateLimit, "Server.RateLimit", flagConf.Server.RateLimit, "Maximum score requests per second")
	f.IntVar(&flagConf.Server.RateBurst, "Server.RateBurst", flagConf.Server.RateBurst, "Score request burst size")

	return f
}

func loggerFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVar(&flagConf.Logger.Level, "Logger.Level", flagConf.Logger.Level, "Level of logging")
	f.StringVar(&flagConf.Logger.OutputFile, "Logger.OutputFile", flagConf.Logger.OutputFile, "File path to write logs to")
	f.StringVar(&flagConf.Logger.Formatter, "Logger.Formatter", flagConf.Logger.Formatter, "Logs formatter. One of ['text', 'json']")

	return f
}
