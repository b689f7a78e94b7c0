// Package vcgctx holds VcgContext, the explicit, threaded-through-every-call
// replacement for the source prover's global Z3_FUNC_CACHE/FRESH_COUNTER
// state (spec.md §9, Design Note "Global mutable caches"). Because it is an
// ordinary value rather than package-level state, independent procedures can
// be verified against independent VcgContext values without any hidden
// coupling — spec.md §5's payoff for making this explicit.
package vcgctx

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lhaig/vcgen/internal/smtf"
)

// VcgContext carries the uninterpreted-function cache and the fresh-id
// counter for one verification session, plus a correlation ID and logger
// used only for diagnostics (neither participates in symbol generation).
type VcgContext struct {
	Funcs  *smtf.FuncCache
	Logger *logrus.Logger

	// CorrelationID tags every log line emitted through this context so
	// that a session's procedure-by-procedure trace can be grepped out
	// of a shared log stream.
	CorrelationID string

	freshCounter int
}

// New returns a fresh VcgContext with its own function cache and a random
// correlation ID, logging through logger (a default logrus.Logger is used
// if logger is nil).
func New(logger *logrus.Logger) *VcgContext {
	if logger == nil {
		logger = logrus.New()
	}
	return &VcgContext{
		Funcs:         smtf.NewFuncCache(),
		Logger:        logger,
		CorrelationID: uuid.NewString(),
	}
}

// Fresh returns the next globally-unique, strictly monotonic id, used to
// build havoc symbol suffixes (v_<id>) and per-call-site bound variables
// (i_frame_<id>). The counter is a plain int, not an atomic — VcgContext is
// never shared across goroutines within one verification run (spec.md §5:
// single-threaded, non-suspending).
func (c *VcgContext) Fresh() int {
	c.freshCounter++
	return c.freshCounter
}

// WithFields returns a logrus.Entry pre-populated with this context's
// correlation ID, for structured per-call log lines.
func (c *VcgContext) WithFields(fields logrus.Fields) *logrus.Entry {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["correlation_id"] = c.CorrelationID
	return c.Logger.WithFields(fields)
}
