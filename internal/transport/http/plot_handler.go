package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "clinocontour/internal/errors"
	"clinocontour/internal/pipeline"
	"clinocontour/internal/services"
	"clinocontour/internal/survey"
	"clinocontour/internal/validation"
)

const (
	// SurveyField is the multipart field carrying the survey file
	SurveyField = "survey"

	// multipartMemory is how much of an upload is buffered in memory before
	// spilling to temp files
	multipartMemory = 8 << 20
)

// PlotServiceInterface defines the plotting operations the handler needs
type PlotServiceInterface interface {
	Plot(ctx context.Context, req validation.PlotRequest, in io.Reader, out io.Writer) (*pipeline.Result, error)
	Inspect(ctx context.Context, req validation.PlotRequest, in io.Reader) (survey.Summary, error)
	Options() services.PlotOptions
}

// PlotHandler handles survey upload, plotting and inspection
type PlotHandler struct {
	service        PlotServiceInterface
	maxUploadBytes int64
	logger         *slog.Logger
	errorHandler   *apperrors.ErrorHandler
}

// NewPlotHandler creates a plot handler. Uploads larger than maxUploadBytes
// are rejected with 413.
func NewPlotHandler(service PlotServiceInterface, maxUploadBytes int64, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *PlotHandler {
	return &PlotHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "plot_handler")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the plot routes, mounted under /api/v1
func (h *PlotHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/plots", h.CreatePlot)
	r.Get("/plots/options", h.GetOptions)
	r.Post("/surveys/inspect", h.InspectSurvey)

	return r
}

// CreatePlot handles POST /plots and responds with the contour PNG
func (h *PlotHandler) CreatePlot(w http.ResponseWriter, r *http.Request) {
	req, file, err := h.parseUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	result, err := h.service.Plot(r.Context(), req, file, &buf)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	name := strings.TrimSuffix(req.Filename, filepath.Ext(req.Filename)) + ".png"
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	if result != nil {
		w.Header().Set("X-Run-ID", result.RunID)
	}
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to write plot response",
			slog.String("error", err.Error()))
	}
}

// InspectSurvey handles POST /surveys/inspect and responds with a summary
func (h *PlotHandler) InspectSurvey(w http.ResponseWriter, r *http.Request) {
	req, file, err := h.parseUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer file.Close()

	summary, err := h.service.Inspect(r.Context(), req, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetOptions handles GET /plots/options
func (h *PlotHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Options())
}

// parseUpload reads the multipart form: the survey file plus the optional
// title, resolution, colormap and strict_dates fields.
func (h *PlotHandler) parseUpload(w http.ResponseWriter, r *http.Request) (validation.PlotRequest, multipart.File, error) {
	var req validation.PlotRequest

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return req, nil, maxErr
		}
		if strings.Contains(err.Error(), "request body too large") {
			return req, nil, &http.MaxBytesError{Limit: h.maxUploadBytes}
		}
		return req, nil, apperrors.NewConfigError("request must be multipart/form-data with a survey file", err).
			WithContext(apperrors.KeyFields, map[string]string{SurveyField: "required"})
	}

	file, header, err := r.FormFile(SurveyField)
	if err != nil {
		return req, nil, apperrors.NewConfigError("survey file is required", err).
			WithContext(apperrors.KeyFields, map[string]string{SurveyField: "required"})
	}

	req = validation.PlotRequest{
		Filename:   filepath.Base(header.Filename),
		Title:      r.FormValue("title"),
		Resolution: r.FormValue("resolution"),
		Colormap:   r.FormValue("colormap"),
	}
	if v := r.FormValue("strict_dates"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			file.Close()
			return req, nil, apperrors.NewConfigError(fmt.Sprintf("strict_dates %q is not a boolean", v), err).
				WithContext(apperrors.KeyFields, map[string]string{"strict_dates": "must be true or false"})
		}
		req.StrictDates = strict
	}

	h.logger.DebugContext(r.Context(), "Survey upload received",
		slog.String("filename", req.Filename),
		slog.Int64("size", header.Size))
	return req, file, nil
}
