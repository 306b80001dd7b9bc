package certimg

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/sfnt"
)

// Generic font class used when the exact family cannot be realized.
type FontClass string

const (
	FontClassCursive   FontClass = "cursive"
	FontClassSerif     FontClass = "serif"
	FontClassSansSerif FontClass = "sans-serif"
)

// Fixed lookup table from the supported family set to its generic class.
// Families outside the table fall back to sans-serif.
var fontClassByFamily = map[string]FontClass{
	"Great Vibes":      FontClassCursive,
	"Poppins":          FontClassSansSerif,
	"Merriweather":     FontClassSerif,
	"Playfair Display": FontClassSerif,
}

func FallbackClass(family string) FontClass {
	if class, ok := fontClassByFamily[family]; ok {
		return class
	}
	return FontClassSansSerif
}

// Families selectable in the template editor.
func SupportedFamilies() []string {
	return []string{"Great Vibes", "Poppins", "Merriweather", "Playfair Display"}
}

type FontMetadata struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func getFontMetadataByPath(fontPath string) (*FontMetadata, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	font, err := sfnt.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	name, err := font.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		return nil, fmt.Errorf("retrieving font name: %w", err)
	}

	return &FontMetadata{
		Name: name,
		Path: fontPath,
	}, nil
}

// Scan through the directory to process .ttf and .otf files.
func ScanFontDir(dir string) ([]FontMetadata, error) {
	var fonts []FontMetadata

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext != ".ttf" && ext != ".otf" {
			return nil
		}

		meta, err := getFontMetadataByPath(path)
		if err != nil {
			log.Printf("Skipping %q: %v", path, err)
			return nil
		}

		fonts = append(fonts, *meta)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return fonts, nil
}

// List the available font family and its path
func GetAvailableFonts(path string) ([]*FontMetadata, error) {
	var fonts []*FontMetadata

	if path == "" {
		path = "font_metadata.json"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fonts, fmt.Errorf("reading font metadata %q: %w", path, err)
	}

	if err := json.Unmarshal(data, &fonts); err != nil {
		return fonts, fmt.Errorf("unmarshalling font metadata: %w", err)
	}

	return fonts, nil
}

// FontLoader resolves a family name to a canvas font family. Resolution never
// blocks on an unavailable font: a family that cannot be realized from the
// metadata file falls back to the family configured for its generic class.
type FontLoader struct {
	AvailableFonts []*FontMetadata
	// Family name to load per generic class when the exact family is missing.
	ClassFallbacks map[FontClass]string

	mu    sync.Mutex
	cache map[string]*canvas.FontFamily
}

func NewFontLoader(metadataPath string, classFallbacks map[FontClass]string) (*FontLoader, error) {
	fonts, err := GetAvailableFonts(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load font metadata: %w", err)
	}

	return &FontLoader{
		AvailableFonts: fonts,
		ClassFallbacks: classFallbacks,
		cache:          make(map[string]*canvas.FontFamily),
	}, nil
}

func (fl *FontLoader) metadataByName(fontName string) *FontMetadata {
	for _, font := range fl.AvailableFonts {
		if font.Name == fontName {
			return font
		}
	}
	return nil
}

func (fl *FontLoader) loadFamily(meta *FontMetadata) (*canvas.FontFamily, error) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if family, ok := fl.cache[meta.Name]; ok {
		return family, nil
	}

	family := canvas.NewFontFamily(meta.Name)
	if err := family.LoadFontFile(meta.Path, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("failed to load font file %q: %w", meta.Path, err)
	}

	fl.cache[meta.Name] = family
	return family, nil
}

// Load realizes the requested family, or its generic-class fallback when the
// family is unknown or its file cannot be loaded. It only fails when neither
// the family nor any fallback can be realized.
func (fl *FontLoader) Load(fontName string) (*canvas.FontFamily, error) {
	if meta := fl.metadataByName(fontName); meta != nil {
		family, err := fl.loadFamily(meta)
		if err == nil {
			return family, nil
		}
		log.Printf("Font %q unusable, falling back: %v", fontName, err)
	}

	class := FallbackClass(fontName)
	if fallbackName, ok := fl.ClassFallbacks[class]; ok && fallbackName != fontName {
		if meta := fl.metadataByName(fallbackName); meta != nil {
			if family, err := fl.loadFamily(meta); err == nil {
				return family, nil
			}
		}
	}

	// Last resort: any font we can realize.
	for _, meta := range fl.AvailableFonts {
		if family, err := fl.loadFamily(meta); err == nil {
			return family, nil
		}
	}

	return nil, fmt.Errorf("no usable font for family %q (class %s)", fontName, class)
}
