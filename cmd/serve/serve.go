// Package serve contains the "rater serve" command.
package serve

import (
	"context"
	"fmt"
	"syscall"
	"time"

	"github.com/edgeorch/rater/cmd/util"
	"github.com/edgeorch/rater/config"
	"github.com/edgeorch/rater/logger"
	"github.com/edgeorch/rater/metrics"
	"github.com/edgeorch/rater/resource"
	"github.com/edgeorch/rater/scoring"
	"github.com/edgeorch/rater/server"
	rutil "github.com/edgeorch/rater/util"
	"github.com/edgeorch/rater/version"
	"github.com/spf13/cobra"
)

// NewCommand returns the serve command
func NewCommand() *cobra.Command {
	cmd, _ := newCommandHooks()
	return cmd
}

type hooks struct {
	Run func(ctx context.Context, conf config.Config, log *logger.Logger) error
}

func newCommandHooks() (*cobra.Command, *hooks) {
	hooks := &hooks{
		Run: Run,
	}

	var (
		configFile string
		flagConf   config.Config
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Monitor this device and serve its scores over HTTP.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := util.MergeConfigFileWithFlags(configFile, flagConf)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}
			log := logger.NewLogger("rater", conf.Logger)
			ctx := rutil.SignalContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			return hooks.Run(ctx, conf, log)
		},
	}

	cmd.SetGlobalNormalizationFunc(util.NormalizeFlags)
	cmd.Flags().AddFlagSet(util.ServeFlags(&flagConf, &configFile))

	return cmd, hooks
}

// Run opens the resource store, starts the monitor and serves scores
// until ctx is canceled.
func Run(ctx context.Context, conf config.Config, log *logger.Logger) error {
	log.Info("Version", version.LogFields()...)

	reg := scoring.NewDefaultRegistry()
	if _, err := scoring.FromConfig(conf.Scoring, reg); err != nil {
		return err
	}
	log.Info("Bound scoring strategy", "strategy", conf.Scoring.Strategy)

	store, err := resource.NewStore(conf.Store)
	if err != nil {
		return fmt.Errorf("opening resource store: %s", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	if conf.Monitor.Disabled {
		close(done)
	} else {
		m := resource.NewMonitor(conf.Monitor, store, log.NewSubLogger("monitor"))
		m.OnSample = metrics.ObserveResource
		go func() {
			m.Run(ctx)
			close(done)
		}()
	}

	q := resource.NewStoreQuery(store, time.Duration(conf.Store.MaxAge))
	srv := server.New(conf.Server, reg, conf.Scoring.Strategy, q, log.NewSubLogger("server"))
	err = srv.Serve(ctx)

	// The store must outlive the monitor.
	cancel()
	<-done
	return err
}
