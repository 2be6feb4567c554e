package validation

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "clinocontour/internal/errors"
	"clinocontour/internal/files"
	"clinocontour/internal/render"
)

// PlotRequest carries the plot options of an upload. Empty options fall
// back to the configured defaults.
type PlotRequest struct {
	Filename    string `json:"filename" validate:"required,max=255,survey_file"`
	Title       string `json:"title" validate:"max=200"`
	Resolution  string `json:"resolution" validate:"omitempty,resolution"`
	Colormap    string `json:"colormap" validate:"omitempty,colormap"`
	StrictDates bool   `json:"strict_dates"`
}

// RenderConfig resolves the request against defaults
func (p PlotRequest) RenderConfig(defaults render.Config) (render.Config, error) {
	cfg := defaults
	if p.Resolution != "" {
		res, err := render.ParseResolution(p.Resolution)
		if err != nil {
			return render.Config{}, err
		}
		cfg.Resolution = res
	}
	if p.Colormap != "" {
		cm, err := render.ParseColormap(p.Colormap)
		if err != nil {
			return render.Config{}, err
		}
		cfg.Colormap = cm
	}
	if strings.TrimSpace(p.Title) != "" {
		cfg.Title = p.Title
	}
	return cfg, nil
}

// RequestValidator validates request structs using struct tags
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a validator with the survey-specific tags
// registered.
func NewRequestValidator() *RequestValidator {
	v := validator.New()

	v.RegisterValidation("resolution", isResolution)
	v.RegisterValidation("colormap", isColormap)
	v.RegisterValidation("survey_file", isSurveyFilename)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RequestValidator{validate: v}
}

// Struct validates s and reports every failing field in one ConfigError
func (rv *RequestValidator) Struct(s interface{}) error {
	err := rv.validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewConfigError("invalid request", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := formatFieldError(fe)
		messages = append(messages, msg)
		fields[fe.Field()] = msg
	}
	return apperrors.NewConfigError(strings.Join(messages, "; "), nil).
		WithContext(apperrors.KeyFields, fields)
}

// formatFieldError formats validation error messages
func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "resolution":
		return fmt.Sprintf("%s must be one of: %s", field, resolutionChoices())
	case "colormap":
		return fmt.Sprintf("%s must be one of: %s", field, colormapChoices())
	case "survey_file":
		return fmt.Sprintf("%s must be a .csv or .xlsx file name", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func resolutionChoices() string {
	choices := make([]string, 0, len(render.Resolutions))
	for _, r := range render.Resolutions {
		choices = append(choices, fmt.Sprintf("%d (%s)", int(r), r.Name()))
	}
	return strings.Join(choices, ", ")
}

func colormapChoices() string {
	choices := make([]string, 0, len(render.Colormaps))
	for _, c := range render.Colormaps {
		choices = append(choices, fmt.Sprintf("%s (%s)", c, c.Name()))
	}
	return strings.Join(choices, ", ")
}

// Custom validators

func isResolution(fl validator.FieldLevel) bool {
	_, err := render.ParseResolution(fl.Field().String())
	return err == nil
}

func isColormap(fl validator.FieldLevel) bool {
	_, err := render.ParseColormap(fl.Field().String())
	return err == nil
}

// isSurveyFilename accepts a bare .csv or .xlsx file name
func isSurveyFilename(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return false
	}
	return name == filepath.Base(name) && files.IsSurveyFile(name)
}
