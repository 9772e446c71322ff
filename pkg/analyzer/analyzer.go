// Package analyzer is the caller-facing surface: metadata extraction,
// lineage tracing, and diagnostic checks over parsed statements, singly or
// in bounded-concurrency batches.
package analyzer

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lineage"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/meta"

	// Register all checks.
	_ "github.com/metastack-labs/metasql/pkg/determinism"
	_ "github.com/metastack-labs/metasql/pkg/lint/rules"
)

// Analyzer bundles the extractor, tracer, and check runner behind one
// configuration. Safe for concurrent use.
type Analyzer struct {
	cfg    *lint.Config
	logger *slog.Logger

	extractor *meta.Extractor
	tracer    *lineage.Tracer
	runner    *lint.Runner
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithConfig sets the check configuration.
func WithConfig(cfg *lint.Config) Option {
	return func(a *Analyzer) { a.cfg = cfg }
}

// WithLogger sets the logger passed to all components.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// New creates an Analyzer. Without options it runs every check at default
// severity and logs through slog.Default.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:    lint.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.extractor = meta.NewExtractor(meta.WithLogger(a.logger))
	a.tracer = lineage.NewTracer(lineage.WithLogger(a.logger))
	a.runner = lint.NewRunner(a.cfg, lint.WithLogger(a.logger))
	return a
}

// Extract returns the entities, attributes, and relationships of one
// statement.
func (a *Analyzer) Extract(stmt *ast.Statement, hints *core.SchemaHints) (*core.Metadata, []core.Diagnostic, error) {
	return a.extractor.Extract(stmt, hints)
}

// TraceLineage returns the attribute mappings of one statement.
func (a *Analyzer) TraceLineage(stmt *ast.Statement, hints *core.SchemaHints) ([]core.AttributeMapping, []core.Diagnostic, error) {
	return a.tracer.Trace(stmt, hints)
}

// Analyze runs all enabled checks over one statement.
func (a *Analyzer) Analyze(stmt *ast.Statement, hints *core.SchemaHints) ([]core.Diagnostic, error) {
	return a.runner.Run(stmt, hints)
}

// AllCheckTypes returns the fixed set of check type identifiers, for
// callers reporting coverage.
func (a *Analyzer) AllCheckTypes() []core.CheckType {
	return lint.AllCheckTypes()
}

// Result is the complete analysis of one statement. Err is set when the
// statement could not be analyzed at all; partial analysis yields metadata
// plus diagnostics explaining the gaps instead.
type Result struct {
	StatementID string
	Metadata    *core.Metadata
	Mappings    []core.AttributeMapping
	Diagnostics []core.Diagnostic
	Err         error
}

// AnalyzeStatement runs extraction, lineage, and checks over one statement
// and merges the diagnostics, deduplicated and sorted.
func (a *Analyzer) AnalyzeStatement(stmt *ast.Statement, hints *core.SchemaHints) *Result {
	res := &Result{}
	if stmt != nil {
		res.StatementID = stmt.ID
	}

	agg := lint.NewAggregator()

	md, extractDiags, err := a.extractor.Extract(stmt, hints)
	if err != nil {
		res.Err = err
		return res
	}
	res.Metadata = md
	agg.Add(extractDiags...)

	mappings, traceDiags, err := a.tracer.Trace(stmt, hints)
	if err != nil {
		res.Err = err
		return res
	}
	res.Mappings = mappings
	agg.Add(traceDiags...)

	checkDiags, err := a.runner.Run(stmt, hints)
	if err != nil {
		res.Err = err
		return res
	}
	agg.Add(checkDiags...)

	res.Diagnostics = agg.Diagnostics()
	return res
}

// Batch analyzes independent statements in parallel, bounded by limit
// workers (a non-positive limit means one worker per CPU). Results keep the
// input order. A statement that cannot be analyzed carries its error in its
// Result; only context cancellation fails the batch.
func (a *Analyzer) Batch(ctx context.Context, stmts []*ast.Statement, hints *core.SchemaHints, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	results := make([]*Result, len(stmts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, stmt := range stmts {
		i, stmt := i, stmt
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = a.AnalyzeStatement(stmt, hints)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
