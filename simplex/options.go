package simplex

import (
	"io"

	"github.com/sirupsen/logrus"
)

type options struct {
	log   logrus.FieldLogger
	stats *Stats
	trace func(*Tableau)
}

// Option configures Solve.
type Option func(*options)

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func defaultOptions() options {
	return options{log: discard}
}

// WithLogger traces phases and base changes at debug level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithStats stores the pivot counts of the solve in s.
func WithStats(s *Stats) Option {
	return func(o *options) {
		o.stats = s
	}
}

// WithTrace calls fn after every pivot. fn must not modify the tableau.
func WithTrace(fn func(*Tableau)) Option {
	return func(o *options) {
		o.trace = fn
	}
}
