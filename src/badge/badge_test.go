package badge

import (
	"encoding/xml"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func builtin(t *testing.T) *FontMetrics {
	t.Helper()
	m, err := LoadBuiltinFont(11)
	require.NoError(t, err)
	return m
}

func TestLoadBuiltinFont(t *testing.T) {
	m := builtin(t)
	assert.Equal(t, "Go", m.FontName())
	assert.Equal(t, 11.0, m.FontSize())
	assert.Equal(t, goregular.TTF, m.FontData())

	assert.Greater(t, m.TextWidth("MMMM"), m.TextWidth("iiii"))
	assert.InDelta(t, m.TextWidth("ab")+m.TextWidth("c"), m.TextWidth("abc"), 1e-9)
	assert.Greater(t, m.TextWidth("é"), 0.0, "non-ASCII uses the fallback width")
}

func TestLoadFontErrors(t *testing.T) {
	_, err := LoadFont("junk", []byte("not a font"), 11)
	assert.Error(t, err)

	_, err = LoadFontFile(filepath.Join(t.TempDir(), "missing.ttf"), 11)
	assert.Error(t, err)
}

func TestLoadFontFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))

	m, err := LoadFontFile(path, 12)
	require.NoError(t, err)
	assert.Equal(t, 12.0, m.FontSize())
}

func TestGenerateIsWellFormed(t *testing.T) {
	e := New(builtin(t))
	svg := e.Generate(Badge{Label: "a<b", Value: `"x" & 'y'`, Color: ColorGreen})

	assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`))
	assert.Contains(t, svg, "a&lt;b")
	assert.Contains(t, svg, "&quot;x&quot; &amp; &apos;y&apos;")
	assert.Contains(t, svg, "format('truetype')")

	var doc struct {
		XMLName xml.Name
		Width   int `xml:"width,attr"`
	}
	require.NoError(t, xml.Unmarshal([]byte(svg), &doc))
	assert.Equal(t, "svg", doc.XMLName.Local)
	assert.Greater(t, doc.Width, 2*textPadding)
}

func TestWiderTextWiderBadge(t *testing.T) {
	e := New(builtin(t))
	assert.Less(t, e.segmentWidth("1"), e.segmentWidth("1000000"))
}

func TestMetricBadges(t *testing.T) {
	assert.Equal(t, Badge{Label: "throughput", Value: "12/1h", Color: ColorBlue}, Throughput(12, time.Hour))
	assert.Equal(t, "3/1h30m", Throughput(3, 90*time.Minute).Value)
	assert.Equal(t, "3/45s", Throughput(3, 45*time.Second).Value)
	assert.Equal(t, "4", Concurrency(4).Value)

	tests := []struct {
		rate  float64
		value string
		color string
	}{
		{100, "100%", ColorGreen},
		{90, "90%", ColorGreen},
		{80, "80%", ColorYellow},
		{10, "10%", ColorRed},
		{math.NaN(), "n/a", ColorGrey},
	}
	for _, tt := range tests {
		b := Success(tt.rate)
		assert.Equal(t, tt.value, b.Value)
		assert.Equal(t, tt.color, b.Color)
	}
}

func TestWriteFile(t *testing.T) {
	e := New(builtin(t))
	path := filepath.Join(t.TempDir(), "nested", SuccessFile)

	require.NoError(t, e.WriteFile(path, Success(50)))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "50%")
}
