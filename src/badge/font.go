// Package badge renders shields-style SVG badges for build metrics, with the
// font embedded and text widths measured from real glyph advances.
package badge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// BuiltinFontName is the family used when no font file is configured.
const BuiltinFontName = "Go"

// FontMetrics holds measured glyph widths and font data for SVG embedding.
type FontMetrics struct {
	name     string
	size     float64
	data     []byte           // raw TTF/OTF bytes
	advances map[rune]float64 // printable ASCII
	fallback float64          // for runes outside the table
}

// TextWidth returns the pixel width of s.
func (m *FontMetrics) TextWidth(s string) float64 {
	var w float64
	for _, r := range s {
		adv, ok := m.advances[r]
		if !ok {
			adv = m.fallback
		}
		w += adv
	}
	return w
}

// FontData returns the raw font bytes.
func (m *FontMetrics) FontData() []byte { return m.data }

// FontName returns the font family name.
func (m *FontMetrics) FontName() string { return m.name }

// FontSize returns the point size text is measured at.
func (m *FontMetrics) FontSize() float64 { return m.size }

// LoadFont parses a TTF/OTF and measures printable ASCII at size points.
// Built-in and custom fonts both go through here.
func LoadFont(name string, data []byte, size float64) (*FontMetrics, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", name, err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72})
	if err != nil {
		return nil, fmt.Errorf("creating face for %s: %w", name, err)
	}
	defer face.Close()

	m := &FontMetrics{
		name:     name,
		size:     size,
		data:     data,
		advances: make(map[rune]float64, 95),
		fallback: size * 0.6,
	}

	var total float64
	for r := rune(' '); r <= '~'; r++ {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		px := toPixels(adv)
		m.advances[r] = px
		total += px
	}
	if n := len(m.advances); n > 0 {
		m.fallback = total / float64(n)
	}

	if family, err := f.Name(&sfnt.Buffer{}, sfnt.NameIDFamily); err == nil && family != "" {
		m.name = family
	}
	return m, nil
}

// LoadBuiltinFont loads the Go Regular font shipped with x/image.
func LoadBuiltinFont(size float64) (*FontMetrics, error) {
	return LoadFont(BuiltinFontName, goregular.TTF, size)
}

// LoadFontFile loads a TTF/OTF from disk.
func LoadFontFile(path string, size float64) (*FontMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font file %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return LoadFont(name, data, size)
}

func toPixels(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
