package badge

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"
)

const (
	badgeHeight = 20
	textPadding = 10
	labelColor  = "#555"
)

// renderSVG produces a flat shields-style badge.
func (e *Engine) renderSVG(b Badge) string {
	lw := e.segmentWidth(b.Label)
	vw := e.segmentWidth(b.Value)
	total := lw + vw

	family := e.metrics.FontName()
	label := xmlEscape(b.Label)
	value := xmlEscape(b.Value)

	var s strings.Builder
	fmt.Fprintf(&s, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`, total, badgeHeight)

	s.WriteString(`<defs>`)
	fmt.Fprintf(&s, `<style type="text/css">%s</style>`, fontFaceCSS(family, e.metrics.FontData()))
	s.WriteString(`<linearGradient id="b" x2="0" y2="100%">`)
	s.WriteString(`<stop offset="0" stop-color="#bbb" stop-opacity=".1"/><stop offset="1" stop-opacity=".1"/>`)
	s.WriteString(`</linearGradient></defs>`)

	fmt.Fprintf(&s, `<mask id="a"><rect width="%d" height="%d" rx="3" fill="#fff"/></mask>`, total, badgeHeight)
	s.WriteString(`<g mask="url(#a)">`)
	fmt.Fprintf(&s, `<rect width="%d" height="%d" fill="%s"/>`, lw, badgeHeight, labelColor)
	fmt.Fprintf(&s, `<rect x="%d" width="%d" height="%d" fill="%s"/>`, lw, vw, badgeHeight, xmlEscape(b.Color))
	fmt.Fprintf(&s, `<rect width="%d" height="%d" fill="url(#b)"/>`, total, badgeHeight)
	s.WriteString(`</g>`)

	fmt.Fprintf(&s, `<g fill="#fff" text-anchor="middle" font-family="%s" font-size="%g">`,
		xmlEscape(fmt.Sprintf("'%s',Verdana,Geneva,sans-serif", family)), e.metrics.FontSize())
	writeShadowedText(&s, lw/2, label)
	writeShadowedText(&s, lw+vw/2, value)
	s.WriteString(`</g></svg>`)

	return s.String()
}

func (e *Engine) segmentWidth(text string) int {
	return int(math.Round(e.metrics.TextWidth(text))) + textPadding
}

// writeShadowedText draws text with a one-pixel drop shadow.
func writeShadowedText(s *strings.Builder, x int, text string) {
	fmt.Fprintf(s, `<text x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text>`, x, text)
	fmt.Fprintf(s, `<text x="%d" y="14">%s</text>`, x, text)
}

// fontFaceCSS returns an @font-face rule with the font embedded as base64.
func fontFaceCSS(name string, data []byte) string {
	ext, format := "ttf", "truetype"
	if len(data) >= 4 && string(data[:4]) == "OTTO" {
		ext, format = "otf", "opentype"
	}
	return fmt.Sprintf(`@font-face{font-family:'%s';src:url(data:font/%s;base64,%s) format('%s')}`,
		name, ext, base64.StdEncoding.EncodeToString(data), format)
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

func xmlEscape(s string) string { return xmlReplacer.Replace(s) }
