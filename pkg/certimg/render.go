package certimg

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
)

/*
 * Attention: tdewolff/canvas uses mm as the unit of measurement, all input to
 * this package is in px and is converted to mm where needed. Rasterization
 * happens at 72 DPI so one px equals one pt and the output raster has exactly
 * the pixel dimensions of the base image.
 */

const DPI = 72

// ErrUnrenderableImage is returned when the base image bytes cannot be
// decoded into a raster.
var ErrUnrenderableImage = errors.New("base image cannot be decoded")

// RenderRequest carries the style fields of one render call. It is derived
// from a template and never persisted.
type RenderRequest struct {
	OverlayText  string
	FontSizePx   int
	FontColor    string
	YPositionPct int
	FontFamily   string
}

// Converts pixels to millimeters
func pxToMM(px float64) float64 {
	return (px * 25.4) / DPI
}

// Compositor draws a display name over a base image. It performs no I/O
// beyond font-file loads through its FontLoader and is deterministic for
// identical inputs.
type Compositor struct {
	fonts *FontLoader
}

func NewCompositor(fonts *FontLoader) *Compositor {
	return &Compositor{fonts: fonts}
}

// textToDraw applies the display-name fallback: a blank name never produces
// an empty overlay as long as the request carries a default text.
func textToDraw(displayName, overlayText string) string {
	if trimmed := strings.TrimSpace(displayName); trimmed != "" {
		return trimmed
	}
	return overlayText
}

// Render draws the base image full-bleed at the origin, then the display name
// (or the request's overlay text when the name is blank) centered on the
// horizontal midpoint and vertically centered at height*yPositionPct/100.
// Returns the composed raster as PNG bytes.
func (c *Compositor) Render(baseImage []byte, req RenderRequest, displayName string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(baseImage))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrenderableImage, err)
	}

	family, err := c.fonts.Load(req.FontFamily)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve font: %w", err)
	}

	bounds := img.Bounds()
	widthPx := float64(bounds.Dx())
	heightPx := float64(bounds.Dy())

	cv := canvas.New(pxToMM(widthPx), pxToMM(heightPx))
	cvCtx := canvas.NewContext(cv)
	// Change coordination from bottom-left to top-left
	cvCtx.SetCoordSystem(canvas.CartesianIV)

	cvCtx.DrawImage(0, 0, img, canvas.DPMM(float64(DPI)/25.4))

	text := textToDraw(displayName, req.OverlayText)
	if text != "" {
		// At 72 DPI the px font size maps straight onto pt.
		face := family.Face(float64(req.FontSizePx), canvas.Hex(req.FontColor), canvas.FontRegular, canvas.FontNormal)

		rt := canvas.NewRichText(face)
		rt.WriteString(text)
		textBox := rt.ToText(0, 0, canvas.Left, canvas.Top, 0.0, 0.0)

		textWidthMM, textHeightMM := textBox.Bounds().W(), textBox.Bounds().H()

		// Anchor on the visual center of the glyph run.
		xMM := (pxToMM(widthPx) - textWidthMM) / 2
		yMM := pxToMM(heightPx)*float64(req.YPositionPct)/100 - textHeightMM/2

		cvCtx.DrawText(xMM, yMM, textBox)
	}

	raster := rasterizer.Draw(cv, canvas.DPMM(float64(DPI)/25.4), canvas.DefaultColorSpace)

	var buf bytes.Buffer
	if err := png.Encode(&buf, raster); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}

	return buf.Bytes(), nil
}
