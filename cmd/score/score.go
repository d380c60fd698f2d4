// Package score contains the "rater score" command.
package score

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"syscall"

	"github.com/edgeorch/rater/cmd/util"
	"github.com/edgeorch/rater/config"
	"github.com/edgeorch/rater/logger"
	"github.com/edgeorch/rater/resource"
	"github.com/edgeorch/rater/scoring"
	rutil "github.com/edgeorch/rater/util"
	"github.com/spf13/cobra"
)

// NewCommand returns the score command
func NewCommand() *cobra.Command {
	cmd, _ := newCommandHooks()
	return cmd
}

// Options holds the command line options of "rater score" which aren't
// part of the config.
type Options struct {
	// Snapshots are files of resource values, one per target.
	// "-" reads a snapshot from stdin.
	Snapshots []string
	// Parallel is the number of targets scored at once.
	Parallel int
}

type hooks struct {
	Run func(ctx context.Context, conf config.Config, opts Options, out io.Writer) error
}

func newCommandHooks() (*cobra.Command, *hooks) {
	hooks := &hooks{
		Run: Run,
	}

	var (
		configFile string
		opts       Options
		flagConf   config.Config
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score this device, or snapshots of resource values.",
		Long: `Score this device with the configured strategy and print the score.

With --snapshot, resource values are read from a YAML or JSON file
mapping resource keys to values, instead of being sampled from this device.
Use "--snapshot -" to read a snapshot from stdin.

--snapshot may be repeated to score several targets, one per file.
Each target is printed on its own line as "<target> <score>", in
target name order. Targets are not ranked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := util.MergeConfigFileWithFlags(configFile, flagConf)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}
			ctx := rutil.SignalContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			return hooks.Run(ctx, conf, opts, cmd.OutOrStdout())
		},
	}

	cmd.SetGlobalNormalizationFunc(util.NormalizeFlags)
	f := cmd.Flags()
	f.AddFlagSet(util.ScoreFlags(&flagConf, &configFile))
	f.StringVarP(&flagConf.Scoring.Strategy, "strategy", "s", "", "Name of the scoring strategy")
	f.StringArrayVar(&opts.Snapshots, "snapshot", nil, "Path to a file of resource values. May be repeated")
	f.IntVarP(&opts.Parallel, "parallel", "p", 4, "Number of snapshots scored at once")

	return cmd, hooks
}

// stdinTarget names the target read from stdin.
const stdinTarget = "stdin"

// Run scores resources once and writes the scores to out.
//
// With no snapshots, this device is sampled and its score is printed.
// With one snapshot, its score is printed. With several, each snapshot is
// a target and one "<target> <score>" line is printed per target.
func Run(ctx context.Context, conf config.Config, opts Options, out io.Writer) error {
	log := logger.NewLogger("score", conf.Logger)

	strategy, err := scoring.FromConfig(conf.Scoring, scoring.NewDefaultRegistry())
	if err != nil {
		return err
	}
	strategy = scoring.Logged(conf.Scoring.Strategy, strategy, log)

	if len(opts.Snapshots) == 0 {
		store := resource.NewMemoryStore()
		m := resource.NewMonitor(conf.Monitor, store, log.NewSubLogger("monitor"))
		// Resources which couldn't be sampled are unavailable to the strategy.
		if err := m.Sample(ctx); err != nil {
			log.Warn("Some resources couldn't be sampled", "error", err)
		}
		return printScore(out, strategy.Score(resource.NewStoreQuery(store, 0)))
	}

	targets, err := loadTargets(opts.Snapshots)
	if err != nil {
		return err
	}

	scores := scoring.ScoreAll(ctx, strategy, targets, opts.Parallel, log)
	if len(scores) != len(targets) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("scored %d of %d targets", len(scores), len(targets))
	}

	if len(opts.Snapshots) == 1 {
		for _, score := range scores {
			return printScore(out, score)
		}
	}

	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, err := fmt.Fprintf(out, "%s %s\n", name, formatScore(scores[name]))
		if err != nil {
			return err
		}
	}
	return nil
}

// loadTargets reads each snapshot, keyed by its path.
func loadTargets(paths []string) (map[string]scoring.Query, error) {
	targets := make(map[string]scoring.Query, len(paths))
	for _, p := range paths {
		name := p
		if p == "-" {
			name = stdinTarget
		}
		if _, exists := targets[name]; exists {
			return nil, fmt.Errorf("snapshot %s given more than once", name)
		}

		var snap resource.Snapshot
		var err error
		if p == "-" {
			var raw []byte
			raw, err = io.ReadAll(util.StdinPipe())
			if err != nil {
				return nil, fmt.Errorf("reading snapshot from stdin: %s", err)
			}
			snap, err = resource.ParseSnapshot(raw)
			if err != nil {
				return nil, fmt.Errorf("parsing snapshot from stdin: %s", err)
			}
		} else {
			snap, err = resource.LoadSnapshot(p)
			if err != nil {
				return nil, err
			}
		}
		targets[name] = snap
	}
	return targets, nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'g', -1, 64)
}

func printScore(out io.Writer, score float64) error {
	_, err := fmt.Fprintln(out, formatScore(score))
	return err
}
