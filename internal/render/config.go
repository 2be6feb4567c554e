package render

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "clinocontour/internal/errors"
)

// DefaultTitle is used when no title is supplied.
const DefaultTitle = "Inclinometer Contour Plot"

// Resolution is the requested number of contour bands.
type Resolution int

const (
	ResolutionHalved  Resolution = 5
	ResolutionDefault Resolution = 10
	ResolutionDouble  Resolution = 25
	ResolutionSquared Resolution = 100
)

// Resolutions lists the accepted resolutions in menu order.
var Resolutions = []Resolution{ResolutionHalved, ResolutionDefault, ResolutionDouble, ResolutionSquared}

var resolutionNames = map[Resolution]string{
	ResolutionHalved:  "Halved",
	ResolutionDefault: "Default",
	ResolutionDouble:  "Double",
	ResolutionSquared: "Squared",
}

// String returns the level count as text, e.g. "10".
func (r Resolution) String() string {
	return strconv.Itoa(int(r))
}

// Valid reports whether r is one of Resolutions.
func (r Resolution) Valid() bool {
	_, ok := resolutionNames[r]
	return ok
}

// Name returns the menu name, e.g. "Double".
func (r Resolution) Name() string {
	return resolutionNames[r]
}

// ParseResolution accepts a level count ("25") or its menu name ("Double").
func ParseResolution(s string) (Resolution, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if r := Resolution(n); r.Valid() {
			return r, nil
		}
		return 0, resolutionError(s)
	}
	for r, name := range resolutionNames {
		if strings.EqualFold(name, s) {
			return r, nil
		}
	}
	return 0, resolutionError(s)
}

func resolutionError(s string) error {
	return apperrors.NewConfigError(
		fmt.Sprintf("resolution %q is not one of 5, 10, 25, 100 (Halved, Default, Double, Squared)", s), nil).
		WithContext("field", "resolution")
}

// Config is the immutable set of options for one rendering.
type Config struct {
	Resolution Resolution
	Colormap   Colormap
	Title      string
}

// DefaultConfig returns resolution 10, the jet colormap and DefaultTitle.
func DefaultConfig() Config {
	return Config{
		Resolution: ResolutionDefault,
		Colormap:   Jet,
		Title:      DefaultTitle,
	}
}

// NewConfig parses user supplied options. Empty values fall back to
// DefaultConfig; anything else outside the accepted sets is a ConfigError.
func NewConfig(resolution, colormap, title string) (Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(resolution) != "" {
		r, err := ParseResolution(resolution)
		if err != nil {
			return Config{}, err
		}
		cfg.Resolution = r
	}
	if strings.TrimSpace(colormap) != "" {
		c, err := ParseColormap(colormap)
		if err != nil {
			return Config{}, err
		}
		cfg.Colormap = c
	}
	if strings.TrimSpace(title) != "" {
		cfg.Title = title
	}
	return cfg, nil
}

// Validate returns a ConfigError if the resolution or colormap is not one of
// the accepted values.
func (c Config) Validate() error {
	if !c.Resolution.Valid() {
		return resolutionError(strconv.Itoa(int(c.Resolution)))
	}
	if !c.Colormap.Valid() {
		return colormapError(string(c.Colormap))
	}
	return nil
}
