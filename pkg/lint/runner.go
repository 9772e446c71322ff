package lint

import (
	"fmt"
	"log/slog"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/walker"
)

// Runner executes all enabled checks over one statement traversal. A Runner
// is safe for concurrent use: each Run builds its own walker and aggregator.
type Runner struct {
	cfg    *Config
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used for run progress.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a Runner. A nil config means all checks at default
// severity.
func NewRunner(cfg *Config, opts ...RunnerOption) *Runner {
	r := &Runner{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run walks the statement once, delivering events to every enabled check,
// and returns the deduplicated, sorted findings. A failure inside one check
// becomes an internal-error diagnostic naming that check; all other checks
// still run.
func (r *Runner) Run(stmt *ast.Statement, hints *core.SchemaHints) ([]core.Diagnostic, error) {
	if stmt == nil || stmt.Select == nil {
		return nil, core.ErrNilStatement
	}

	agg := NewAggregator()
	w := walker.New()

	enabled := 0
	for _, check := range GetAll() {
		if !r.cfg.Enabled(check.Type) {
			continue
		}
		enabled++
		w.On(r.wrap(check, agg), check.Kinds...)
	}

	structural := w.Walk(stmt, hints)
	for _, d := range structural {
		if !r.cfg.Enabled(d.CheckType) {
			continue
		}
		d.Severity = r.cfg.SeverityFor(d.CheckType, d.Severity)
		agg.Add(d)
	}

	diags := agg.Diagnostics()
	r.logger.Debug("checks completed",
		"statement", stmt.ID,
		"checks", enabled,
		"findings", len(diags))
	return diags, nil
}

// wrap binds one check to the aggregator with panic isolation and severity
// resolution.
func (r *Runner) wrap(check CheckDef, agg *Aggregator) walker.Callback {
	ctx := &CheckContext{
		Config:  r.cfg,
		Options: r.cfg.OptionsFor(check.Type),
	}
	return func(ev walker.Event) {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("check panicked",
					"check", check.Type,
					"statement", ev.StatementID,
					"path", ev.Path,
					"panic", rec)
				agg.Add(core.Diagnostic{
					CheckType: core.CheckInternalError,
					Severity:  core.SeverityError,
					Message:   fmt.Sprintf("check %s failed at %s: %v", check.Type, ev.Path, rec),
					Location:  core.Location{StatementID: ev.StatementID, Path: ev.Path},
					GroupKey:  fmt.Sprintf("%s|%s|%s", core.CheckInternalError, check.Type, ev.Path),
				})
			}
		}()
		for _, d := range check.Check(ev, ctx) {
			d.CheckType = check.Type
			d.Severity = r.cfg.SeverityFor(check.Type, check.Severity)
			if d.Location.StatementID == "" {
				d.Location.StatementID = ev.StatementID
			}
			if d.Location.Path == "" {
				d.Location.Path = ev.Path
			}
			if d.GroupKey == "" {
				d.GroupKey = fmt.Sprintf("%s|%s|%s", check.Type, d.Location.Path, d.Message)
			}
			agg.Add(d)
		}
	}
}
