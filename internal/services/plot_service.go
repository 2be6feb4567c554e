package services

import (
	"context"
	"io"
	"log/slog"

	"clinocontour/internal/pipeline"
	"clinocontour/internal/render"
	"clinocontour/internal/survey"
	"clinocontour/internal/validation"
)

// PlotService turns uploaded surveys into contour images and summaries
type PlotService struct {
	runner    *pipeline.Runner
	validator *validation.RequestValidator
	defaults  render.Config
	logger    *slog.Logger
}

// Choice is one selectable plot option
type Choice struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

// PlotOptions lists the accepted resolutions and colormaps
type PlotOptions struct {
	Resolutions       []Choice `json:"resolutions"`
	Colormaps         []Choice `json:"colormaps"`
	DefaultResolution string   `json:"default_resolution"`
	DefaultColormap   string   `json:"default_colormap"`
	DefaultTitle      string   `json:"default_title"`
}

// NewPlotService creates a plot service. defaults fills options a request
// leaves empty.
func NewPlotService(runner *pipeline.Runner, defaults render.Config, logger *slog.Logger) *PlotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlotService{
		runner:    runner,
		validator: validation.NewRequestValidator(),
		defaults:  defaults,
		logger:    logger.With(slog.String("service", "plot")),
	}
}

// Plot validates req, reads the survey from in and writes the PNG to out.
// Nothing is written to out unless every stage before export succeeded.
func (s *PlotService) Plot(ctx context.Context, req validation.PlotRequest, in io.Reader, out io.Writer) (*pipeline.Result, error) {
	cfg, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	result, err := s.runner.Stream(ctx, pipeline.Request{
		InputPath:   req.Filename,
		Config:      cfg,
		StrictDates: req.StrictDates,
	}, in, out)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Plot rendered",
		slog.String("filename", req.Filename),
		slog.String("run_id", result.RunID),
		slog.Int64("bytes", result.Bytes))
	return result, nil
}

// Inspect parses the survey from in and summarises it without rendering
func (s *PlotService) Inspect(ctx context.Context, req validation.PlotRequest, in io.Reader) (survey.Summary, error) {
	if err := s.validator.Struct(req); err != nil {
		return survey.Summary{}, err
	}

	sv, err := s.runner.Inspect(ctx, req.Filename, in, req.StrictDates)
	if err != nil {
		return survey.Summary{}, err
	}
	return survey.Summarize(sv)
}

// Options returns the accepted plot options and the defaults in effect
func (s *PlotService) Options() PlotOptions {
	opts := PlotOptions{
		DefaultResolution: s.defaults.Resolution.String(),
		DefaultColormap:   string(s.defaults.Colormap),
		DefaultTitle:      s.defaults.Title,
	}
	for _, r := range render.Resolutions {
		opts.Resolutions = append(opts.Resolutions, Choice{Value: r.String(), Name: r.Name()})
	}
	for _, c := range render.Colormaps {
		opts.Colormaps = append(opts.Colormaps, Choice{Value: string(c), Name: c.Name()})
	}
	return opts
}

func (s *PlotService) resolve(req validation.PlotRequest) (render.Config, error) {
	if err := s.validator.Struct(req); err != nil {
		return render.Config{}, err
	}
	return req.RenderConfig(s.defaults)
}
