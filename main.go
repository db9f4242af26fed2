package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"q.log/ratsimplex/instance"
	"q.log/ratsimplex/metrics"
	"q.log/ratsimplex/model"
	"q.log/ratsimplex/oracle"
	"q.log/ratsimplex/simplex"
)

// crosscheckTol bounds the distance between the exact optimum and the
// oracle's.
const crosscheckTol = 1e-6

type options struct {
	debug bool
	trace bool

	format      string
	exact       bool
	verify      bool
	crosscheck  bool
	printModel  bool
	jobs        int
	metricsFile string
}

func newRootCmd() *cobra.Command {
	o := options{}

	cmd := &cobra.Command{
		Use:          "ratsimplex",
		Short:        "Exact rational simplex solver with certificates",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVar(&o.debug, "debug", false, "use debug log level and trace every base change")
	cmd.PersistentFlags().BoolVar(&o.trace, "trace", false, "use trace log level and print the tableau after every pivot")

	solve := &cobra.Command{
		Use:   "solve FILE...",
		Short: "Solve problem documents: maximize cᵀx subject to Ax <= b, x >= 0",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New()
			logger.SetOutput(cmd.ErrOrStderr())
			switch {
			case o.trace:
				logger.SetLevel(log.TraceLevel)
			case o.debug:
				logger.SetLevel(log.DebugLevel)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return o.run(ctx, logger, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	o.addSolveFlags(solve.Flags())

	cmd.AddCommand(solve)
	return cmd
}

func (o *options) addSolveFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.format, "format", "o", "yaml", "output format, yaml or json")
	fs.BoolVar(&o.exact, "exact", false, "include exact fractions in the output")
	fs.BoolVar(&o.verify, "verify", false, "check every certificate in exact arithmetic")
	fs.BoolVar(&o.crosscheck, "crosscheck", false, "compare every result with a floating point solver")
	fs.BoolVar(&o.printModel, "print-model", false, "print c, b and A of every model to stderr")
	fs.IntVarP(&o.jobs, "jobs", "j", runtime.NumCPU(), "number of problems solved concurrently")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "write solver metrics in the Prometheus text format to this file")
}

func (o *options) run(ctx context.Context, logger *log.Logger, files []string, stdout, stderr io.Writer) error {
	if o.format != "yaml" && o.format != "json" {
		return errors.Wrap(instance.ErrUnknownFormat, o.format)
	}
	if o.jobs < 1 {
		o.jobs = 1
	}

	collector := metrics.New()
	outputs := make([]*instance.Output, len(files))
	var printMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.jobs)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			l := logger.WithField("file", f)
			m, err := instance.NewReader(f).ConstructModelFromFile()
			if err != nil {
				return err
			}
			if o.printModel {
				printMu.Lock()
				fmt.Fprintf(stderr, "%s:\n", f)
				m.PrintC(stderr)
				m.PrintB(stderr)
				m.PrintA(stderr)
				printMu.Unlock()
			}
			out, err := o.solve(l, m, collector)
			if err != nil {
				return errors.Wrap(err, f)
			}
			out.File = f
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, out := range outputs {
		if i > 0 && o.format == "yaml" {
			fmt.Fprintln(stdout, "---")
		}
		if err := out.Encode(stdout, o.format); err != nil {
			return err
		}
	}

	if o.metricsFile != "" {
		if err := collector.WriteToTextfile(o.metricsFile); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}
	return nil
}

func (o *options) solve(l *log.Entry, m *model.Model, collector *metrics.Collector) (*instance.Output, error) {
	var stats simplex.Stats
	opts := []simplex.Option{simplex.WithLogger(l), simplex.WithStats(&stats)}
	if o.trace {
		opts = append(opts, simplex.WithTrace(func(t *simplex.Tableau) {
			l.Trace("tableau\n" + t.String())
		}))
	}

	res, err := simplex.Solve(m, opts...)
	if err != nil {
		collector.ObserveError()
		return nil, err
	}
	collector.ObserveSolve(res, stats)
	l.WithFields(log.Fields{"outcome": res.Outcome(), "pivots": stats.Pivots()}).Info("solved")

	out := instance.NewOutput(m, res, o.exact)
	out.Pivots = stats.Pivots()

	if o.verify {
		if err := simplex.Verify(m, res); err != nil {
			return nil, err
		}
		ok := true
		out.Verified = &ok
	}
	if o.crosscheck {
		crosscheck(l, m, res, out)
	}
	return out, nil
}

// crosscheck records the oracle's outcome in out and warns when it disagrees
// with res.
func crosscheck(l *log.Entry, m *model.Model, res simplex.Result, out *instance.Output) {
	want, err := oracle.Solve(m)
	if err != nil {
		l.WithError(err).Warn("oracle failed")
		return
	}
	out.Oracle = want.Status.String()
	if out.Oracle != res.Outcome().String() {
		l.WithFields(log.Fields{"exact": res.Outcome(), "oracle": want.Status}).Warn("oracle disagrees")
		return
	}
	if opt, ok := res.(*simplex.Optimal); ok {
		if d := math.Abs(opt.Value.Float64() - want.Value); d > crosscheckTol {
			l.WithFields(log.Fields{"exact": opt.Value.String(), "oracle": want.Value}).Warn("oracle value differs")
		}
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
