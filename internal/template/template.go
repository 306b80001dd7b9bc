package template

import (
	"errors"
	"strings"

	"github.com/SengHong/CertSend/pkg/certimg"
)

const (
	MinFontSizePx = 10
	MaxFontSizePx = 300

	MinYPositionPct = 0
	MaxYPositionPct = 100
)

var ErrInvalidTemplate = errors.New("template is missing required fields")

// Template is one saved personalization configuration, keyed by name.
// ImageData carries the base raster as encoded image bytes and travels with
// the template in persistence, but is stripped from exported settings.
type Template struct {
	Name              string `json:"name"`
	ImageData         []byte `json:"imageData,omitempty"`
	OverlayText       string `json:"overlayText"`
	FontSizePx        int    `json:"fontSizePx"`
	FontColor         string `json:"fontColor"`
	YPositionPct      int    `json:"yPositionPct"`
	FontFamily        string `json:"fontFamily"`
	EmailSubject      string `json:"emailSubject"`
	EmailBodyTemplate string `json:"emailBodyTemplate"`
}

// Settings is a Template without its image, the shape of the import/export
// payload.
type Settings struct {
	Name              string `json:"name"`
	OverlayText       string `json:"overlayText"`
	FontSizePx        int    `json:"fontSizePx"`
	FontColor         string `json:"fontColor"`
	YPositionPct      int    `json:"yPositionPct"`
	FontFamily        string `json:"fontFamily"`
	EmailSubject      string `json:"emailSubject"`
	EmailBodyTemplate string `json:"emailBodyTemplate"`
}

func (t Template) Settings() Settings {
	return Settings{
		Name:              t.Name,
		OverlayText:       t.OverlayText,
		FontSizePx:        t.FontSizePx,
		FontColor:         t.FontColor,
		YPositionPct:      t.YPositionPct,
		FontFamily:        t.FontFamily,
		EmailSubject:      t.EmailSubject,
		EmailBodyTemplate: t.EmailBodyTemplate,
	}
}

// Clamp forces the style domains before the template enters the store.
func (t *Template) Clamp() {
	t.FontSizePx = min(max(t.FontSizePx, MinFontSizePx), MaxFontSizePx)
	t.YPositionPct = min(max(t.YPositionPct, MinYPositionPct), MaxYPositionPct)
}

// Validate reports whether the template carries its required identity and
// style fields. A template failing this check never enters the store.
func (t Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" || t.FontSizePx == 0 || strings.TrimSpace(t.FontColor) == "" {
		return ErrInvalidTemplate
	}
	return nil
}

// RenderRequest derives the ephemeral render tuple: every style field of the
// template except its name, image ownership and email subject.
func (t Template) RenderRequest() certimg.RenderRequest {
	return certimg.RenderRequest{
		OverlayText:  t.OverlayText,
		FontSizePx:   t.FontSizePx,
		FontColor:    t.FontColor,
		YPositionPct: t.YPositionPct,
		FontFamily:   t.FontFamily,
	}
}
