package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/cheggaaa/pb.v1"

	"clinocontour/internal/config"
	"clinocontour/internal/files"
	"clinocontour/internal/infrastructure"
	"clinocontour/internal/pipeline"
	"clinocontour/internal/render"
	"clinocontour/internal/survey"
	"clinocontour/internal/validation"
	"clinocontour/pkg/contracts"
)

const dateLayout = "02/01/2006"

type options struct {
	input       string
	dir         string
	out         string
	title       string
	resolution  string
	colormap    string
	configPath  string
	logLevel    string
	summary     bool
	strictDates bool
	version     bool
}

// outcome is the result of plotting one survey
type outcome struct {
	input  string
	output string
	result *pipeline.Result
	err    error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("clinoplot", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.input, "i", "", "survey file to plot (.csv or .xlsx)")
	fs.StringVar(&opts.input, "input", "", "survey file to plot (.csv or .xlsx)")
	fs.StringVar(&opts.dir, "dir", ".", "directory scanned for surveys when no input file is given")
	fs.StringVar(&opts.out, "o", "", "output PNG file for one input, or output directory for a scan")
	fs.StringVar(&opts.out, "out", "", "output PNG file for one input, or output directory for a scan")
	fs.StringVar(&opts.title, "title", "", "plot title")
	fs.StringVar(&opts.resolution, "resolution", "", "contour levels: 5, 10, 25, 100 or Halved, Default, Double, Squared")
	fs.StringVar(&opts.colormap, "colormap", "", "colormap: jet, coolwarm, YlOrRd, gray_r or Default, Diverge, Autumn, Greys")
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.logLevel, "log-level", "", "override the configured log level")
	fs.BoolVar(&opts.summary, "summary", false, "print a summary table of every plotted survey")
	fs.BoolVar(&opts.strictDates, "strict-dates", false, "reject surveys whose date columns are not already ascending")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	defaults, err := cfg.Render.Defaults()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	renderCfg, err := validation.PlotRequest{
		Title:      opts.title,
		Resolution: opts.resolution,
		Colormap:   opts.colormap,
	}.RenderConfig(defaults)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	jobs, err := plan(opts, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	logger.Info("Starting survey plotting",
		slog.Int("files", len(jobs)),
		slog.Int("resolution", int(renderCfg.Resolution)),
		slog.String("colormap", string(renderCfg.Colormap)))

	outcomes := process(ctx, jobs, renderCfg, opts.strictDates || cfg.Render.StrictDates, logger, stdout)

	failed := report(outcomes, stdout, stderr)
	if opts.summary {
		printSummary(outcomes, stdout)
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// plan resolves the input files and their output paths. A single input
// writes to -o, or next to the input. A directory scan writes into -o when
// given, creating it if needed.
func plan(opts *options, logger *slog.Logger) ([]outcome, error) {
	validator := validation.NewFileValidator(logger)

	if opts.input != "" {
		if err := validator.ValidateSurveyFile(opts.input); err != nil {
			return nil, err
		}
		output := files.DefaultOutputPath(opts.input)
		if opts.out != "" {
			output = opts.out
			if info, err := os.Stat(opts.out); err == nil && info.IsDir() {
				output = files.OutputPathIn(opts.out, opts.input)
			}
		}
		return []outcome{{input: opts.input, output: output}}, nil
	}

	if err := validator.ValidateInputDirectory(opts.dir); err != nil {
		return nil, err
	}
	if opts.out != "" {
		if err := validator.ValidateOutputDirectory(opts.out); err != nil {
			return nil, err
		}
	}

	found, err := files.NewDiscovery("").FindSurveyFiles(opts.dir)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("no .csv or .xlsx surveys found in %s", opts.dir)
	}

	jobs := make([]outcome, 0, len(found))
	for _, f := range found {
		logger.Debug("Survey discovered", slog.String("file", f.Describe()))
		jobs = append(jobs, outcome{input: f.Path, output: files.OutputPathIn(opts.out, f.Path)})
	}
	return jobs, nil
}

// process plots every job in order, continuing past failures. Once ctx is
// done the remaining jobs are skipped. A progress bar is shown when there is
// more than one file.
func process(ctx context.Context, jobs []outcome, cfg render.Config, strictDates bool, logger *slog.Logger, stdout io.Writer) []outcome {
	runner := pipeline.NewRunner(logger, pipeline.WithSource("cli"))

	var bar *pb.ProgressBar
	if len(jobs) > 1 {
		bar = pb.New(len(jobs))
		bar.Output = stdout
		bar.ShowTimeLeft = false
		bar.Start()
	}

	for i := range jobs {
		if err := ctx.Err(); err != nil {
			logger.Warn("Survey plotting interrupted", slog.Int("skipped", len(jobs)-i))
			for j := i; j < len(jobs); j++ {
				jobs[j].err = fmt.Errorf("skipped: %w", err)
			}
			break
		}
		if bar != nil {
			bar.Prefix(filepath.Base(jobs[i].input) + " ")
		}
		jobs[i].result, jobs[i].err = runner.Run(ctx, pipeline.Request{
			InputPath:   jobs[i].input,
			OutputPath:  jobs[i].output,
			Config:      cfg,
			StrictDates: strictDates,
		})
		if bar != nil {
			bar.Increment()
		}
	}

	if bar != nil {
		bar.Finish()
	}
	return jobs
}

// report prints one line per file and returns the number of failures
func report(outcomes []outcome, stdout, stderr io.Writer) int {
	failed := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			fmt.Fprintf(stderr, "error: %s: %v\n", o.input, o.err)
			continue
		}
		fmt.Fprintf(stdout, "%s -> %s (%d dates x %d depths, %d bands)\n",
			o.input, o.output,
			len(o.result.Survey.Dates), len(o.result.Survey.Depths), o.result.Figure.Bands())
	}
	if len(outcomes) > 1 {
		fmt.Fprintf(stdout, "%d of %d surveys plotted\n", len(outcomes)-failed, len(outcomes))
	}
	return failed
}

func printSummary(outcomes []outcome, w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Dates", "Depths", "First", "Last", "Depth (m)", "Min", "Max", "Mean", "Median"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, o := range outcomes {
		if o.err != nil {
			continue
		}
		s, err := survey.Summarize(o.result.Survey)
		if err != nil {
			continue
		}
		table.Append([]string{
			filepath.Base(o.input),
			strconv.Itoa(s.Dates),
			strconv.Itoa(s.Depths),
			s.FirstDate.Format(dateLayout),
			s.LastDate.Format(dateLayout),
			fmt.Sprintf("%g-%g", s.MinDepth, s.MaxDepth),
			formatReading(s.Min),
			formatReading(s.Max),
			formatReading(s.Mean),
			formatReading(s.Median),
		})
	}
	table.Render()
}

func formatReading(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
