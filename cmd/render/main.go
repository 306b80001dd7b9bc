package main

import (
	"flag"
	"log"
	"os"

	"github.com/SengHong/CertSend/pkg/certimg"
)

// Renders one certificate from the command line, handy for checking a base
// image and font setup before saving a template.
func main() {
	var (
		imagePath    = flag.String("image", "", "path to the base image (png or jpeg)")
		name         = flag.String("name", "Jane Doe", "display name to draw")
		fontFamily   = flag.String("font", "Great Vibes", "font family")
		fontSizePx   = flag.Int("size", 80, "font size in px")
		fontColor    = flag.String("color", "#000000", "font color")
		yPositionPct = flag.Int("y", 50, "vertical placement as percent of image height")
		metadataPath = flag.String("metadata", "font_metadata.json", "font metadata file")
		outPath      = flag.String("out", "certificate.png", "output file")
	)
	flag.Parse()

	if *imagePath == "" {
		log.Fatal("-image is required")
	}

	base, err := os.ReadFile(*imagePath)
	if err != nil {
		log.Fatalf("Failed to read base image: %v", err)
	}

	fontLoader, err := certimg.NewFontLoader(*metadataPath, map[certimg.FontClass]string{
		certimg.FontClassCursive:   "Great Vibes",
		certimg.FontClassSerif:     "Merriweather",
		certimg.FontClassSansSerif: "Poppins",
	})
	if err != nil {
		log.Fatalf("Failed to load fonts: %v", err)
	}

	compositor := certimg.NewCompositor(fontLoader)
	img, err := compositor.Render(base, certimg.RenderRequest{
		OverlayText:  *name,
		FontSizePx:   *fontSizePx,
		FontColor:    *fontColor,
		YPositionPct: *yPositionPct,
		FontFamily:   *fontFamily,
	}, *name)
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	if err := os.WriteFile(*outPath, img, 0644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}

	log.Printf("Wrote %s", *outPath)
}
