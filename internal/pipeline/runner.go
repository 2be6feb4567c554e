package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clinocontour/internal/exporter"
	"clinocontour/internal/infrastructure"
	"clinocontour/internal/render"
	"clinocontour/internal/survey"
)

// TracerName names the pipeline's OpenTelemetry tracer
const TracerName = "clinocontour.pipeline"

// Request describes one survey to plot
type Request struct {
	// InputPath is the survey file for Run, or the upload name for Stream.
	InputPath string
	// OutputPath is where Run writes the PNG. Unused by Stream.
	OutputPath  string
	Config      render.Config
	StrictDates bool
}

// Result is what a successful run produced
type Result struct {
	RunID      string
	InputPath  string
	OutputPath string
	Survey     *survey.Survey
	Figure     *render.Figure
	Bytes      int64
	Duration   time.Duration
	Stages     []StageTiming
}

// Runner executes the load, axes, grid, render and export stages in order.
// A Runner holds no per-run state and may be shared between goroutines.
type Runner struct {
	logger    *slog.Logger
	writer    *exporter.PNGWriter
	tracer    trace.Tracer
	metrics   *infrastructure.Metrics
	observers []Observer
	source    string
}

// Option configures a Runner
type Option func(*Runner)

// WithObserver adds an observer notified of every stage
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observers = append(r.observers, o) }
}

// WithTracer sets the tracer used for run and stage spans
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) { r.tracer = t }
}

// WithMetrics sets the metrics runs are recorded on
func WithMetrics(m *infrastructure.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithSource labels runs in metrics and events, e.g. "cli" or "http".
func WithSource(source string) Option {
	return func(r *Runner) { r.source = source }
}

// NewRunner creates a Runner. A nil logger uses the global logger.
func NewRunner(logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	r := &Runner{
		logger: infrastructure.WithComponent(logger, "pipeline"),
		tracer: otel.Tracer(TracerName),
		source: "cli",
	}
	for _, opt := range opts {
		opt(r)
	}
	r.writer = exporter.NewPNGWriter(logger)
	return r
}

// run carries the state of one execution
type run struct {
	id     string
	input  string
	logger *slog.Logger
	result *Result
}

// Run loads req.InputPath, renders it and exports the PNG to req.OutputPath.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	return r.execute(ctx, req, func(ctx context.Context, rn *run) (*survey.Table, error) {
		return survey.LoadTable(req.InputPath)
	}, func(ctx context.Context, rn *run, fig *render.Figure) error {
		if err := r.writer.Export(fig, req.OutputPath); err != nil {
			return err
		}
		rn.result.OutputPath = req.OutputPath
		return nil
	})
}

// Stream reads a survey named req.InputPath from in and writes the PNG to
// out. The name only selects the format.
func (r *Runner) Stream(ctx context.Context, req Request, in io.Reader, out io.Writer) (*Result, error) {
	return r.execute(ctx, req, func(ctx context.Context, rn *run) (*survey.Table, error) {
		return survey.Read(in, req.InputPath)
	}, func(ctx context.Context, rn *run, fig *render.Figure) error {
		n, err := r.writer.WriteTo(fig, out)
		rn.result.Bytes = n
		return err
	})
}

// Inspect reads a survey and builds its axes and grid without rendering.
func (r *Runner) Inspect(ctx context.Context, name string, in io.Reader, strictDates bool) (*survey.Survey, error) {
	ctx, span := r.tracer.Start(ctx, "pipeline.inspect",
		trace.WithAttributes(attribute.String("survey.name", filepath.Base(name))))
	defer span.End()

	table, err := survey.Read(in, name)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	s, err := survey.FromTable(table, survey.Options{StrictDates: strictDates})
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	return s, nil
}

type loadFunc func(ctx context.Context, rn *run) (*survey.Table, error)
type exportFunc func(ctx context.Context, rn *run, fig *render.Figure) error

func (r *Runner) execute(ctx context.Context, req Request, load loadFunc, export exportFunc) (*Result, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	rn := &run{
		id:    uuid.New().String(),
		input: req.InputPath,
	}
	rn.logger = r.logger.With(
		slog.String("run_id", rn.id),
		slog.String("input", req.InputPath),
	)
	rn.result = &Result{RunID: rn.id, InputPath: req.InputPath}

	ctx, span := r.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", rn.id),
			attribute.String("run.source", r.source),
			attribute.String("survey.name", filepath.Base(req.InputPath)),
			attribute.Int("render.resolution", int(req.Config.Resolution)),
			attribute.String("render.colormap", string(req.Config.Colormap)),
		),
	)
	defer span.End()

	r.metrics.TrackActive(ctx, 1)
	defer r.metrics.TrackActive(ctx, -1)

	start := time.Now()
	err := r.stages(ctx, rn, req, load, export)
	rn.result.Duration = time.Since(start)
	r.metrics.RecordRun(ctx, r.source, rn.result.Duration, err)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		rn.logger.ErrorContext(ctx, "Survey pipeline failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", rn.result.Duration))
		return nil, err
	}

	rn.logger.InfoContext(ctx, "Survey pipeline completed",
		slog.Int("dates", len(rn.result.Survey.Dates)),
		slog.Int("depths", len(rn.result.Survey.Depths)),
		slog.Int("bands", rn.result.Figure.Bands()),
		slog.Duration("duration", rn.result.Duration))
	return rn.result, nil
}

func (r *Runner) stages(ctx context.Context, rn *run, req Request, load loadFunc, export exportFunc) error {
	if err := req.Config.Validate(); err != nil {
		return err
	}

	var table *survey.Table
	if err := r.stage(ctx, rn, StageLoaded, func(ctx context.Context) error {
		var err error
		table, err = load(ctx, rn)
		return err
	}); err != nil {
		return err
	}

	var (
		columns []survey.DateColumn
		depths  survey.DepthAxis
	)
	if err := r.stage(ctx, rn, StageAxesBuilt, func(ctx context.Context) error {
		var err error
		if columns, err = survey.BuildDateAxis(table.Header()); err != nil {
			return err
		}
		if req.StrictDates {
			if err := survey.CheckAscending(columns); err != nil {
				return err
			}
		}
		depths, err = survey.BuildDepthAxis(table.Data())
		return err
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, rn, StageGridBuilt, func(ctx context.Context) error {
		grid, err := survey.AssembleGrid(table.Data(), columns)
		if err != nil {
			return err
		}
		rn.result.Survey = &survey.Survey{
			Dates:   survey.Dates(columns),
			Depths:  depths,
			Grid:    grid,
			Columns: columns,
		}
		return nil
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, rn, StageRendered, func(ctx context.Context) error {
		s := rn.result.Survey
		fig, err := render.Render(s.Dates, s.Depths, s.Grid, req.Config)
		if err != nil {
			return err
		}
		rn.result.Figure = fig
		return nil
	}); err != nil {
		return err
	}

	return r.stage(ctx, rn, StageExported, func(ctx context.Context) error {
		return export(ctx, rn, rn.result.Figure)
	})
}

// stage runs fn inside a span, times it and notifies observers
func (r *Runner) stage(ctx context.Context, rn *run, stage Stage, fn func(ctx context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("pipeline.stage.%s", stage),
		trace.WithAttributes(attribute.String("stage", string(stage))))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	r.metrics.RecordStage(ctx, string(stage), elapsed, err == nil)
	if err != nil {
		infrastructure.RecordError(ctx, err)
	} else {
		rn.result.Stages = append(rn.result.Stages, StageTiming{Stage: stage, Duration: elapsed})
		rn.logger.DebugContext(ctx, "Stage completed",
			slog.String("stage", string(stage)),
			slog.Duration("duration", elapsed))
	}

	event := stageEvent(rn.id, rn.input, stage, elapsed, err)
	for _, o := range r.observers {
		o.StageChanged(ctx, event)
	}
	return err
}
