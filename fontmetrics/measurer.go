// Package fontmetrics measures text runs for visibility tests.
//
// A [Measurer] shapes text with HarfBuzz (via go-text/typesetting) using the
// font files held by the font cache. Text drawn without a known font gets
// an estimate based on the East Asian width class of each rune.
package fontmetrics

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/width"

	"github.com/gogpu/ggstream"
	"github.com/gogpu/ggstream/command"
)

// FontSource returns font files by cache id.
type FontSource interface {
	Payload(id uint16) ([]byte, error)
}

// parsed is a font parsed from one payload.
type parsed struct {
	data []byte
	font *font.Font
}

// Measurer implements shrink.TextMeasurer.
//
// Measurer is safe for concurrent use. Parsed fonts (read-only) are cached
// per id; faces and shapers are created per call or pooled, since neither
// is safe for concurrent use.
type Measurer struct {
	src     FontSource
	shapers sync.Pool

	mu    sync.RWMutex
	fonts map[uint16]parsed
}

// New creates a measurer reading fonts from src. A nil src makes every
// measurement an estimate.
func New(src FontSource) *Measurer {
	return &Measurer{
		src: src,
		shapers: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		fonts: make(map[uint16]parsed),
	}
}

// Measure returns the advance of text at size pixels. It shapes with the
// cached font when id refers to one, and estimates otherwise. It reports
// false only for empty text or a non-positive size.
func (m *Measurer) Measure(id command.FontID, size int, text string) (float64, bool) {
	if text == "" || size <= 0 {
		return 0, false
	}
	if f := m.font(id); f != nil {
		return m.shape(f, size, text), true
	}
	return Estimate(size, text), true
}

func (m *Measurer) shape(f *font.Font, size int, text string) float64 {
	runes := []rune(text)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(f),
		Size:      fixed.I(size),
		Script:    language.LookupScript(runes[0]),
		Language:  language.NewLanguage("en"),
	}
	shaper := m.shapers.Get().(*shaping.HarfbuzzShaper)
	out := shaper.Shape(input)
	m.shapers.Put(shaper)

	adv := out.Advance
	if adv < 0 {
		adv = -adv
	}
	return float64(adv) / 64
}

// font returns the parsed font for id, or nil.
func (m *Measurer) font(id command.FontID) *font.Font {
	if m.src == nil || id < 0 || id > 0xffff {
		return nil
	}
	key := uint16(id)
	data, err := m.src.Payload(key)
	if err != nil || len(data) == 0 {
		return nil
	}

	m.mu.RLock()
	p, ok := m.fonts[key]
	m.mu.RUnlock()
	if ok && sameBytes(p.data, data) {
		return p.font
	}

	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		ggstream.Logger().Warn("fontmetrics: cannot parse cached font", "id", key, "err", err)
		return nil
	}

	m.mu.Lock()
	m.fonts[key] = parsed{data: data, font: face.Font}
	m.mu.Unlock()
	return face.Font
}

// Forget drops the parsed font for id, typically after the id was evicted.
func (m *Measurer) Forget(id uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.fonts, id)
}

// sameBytes reports whether a and b are the same slice. Cached payloads are
// never mutated, so a recycled id always comes with a new backing array.
func sameBytes(a, b []byte) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}

// Estimate approximates the advance of text at size pixels without font
// data: wide and fullwidth runes take one em, all others three quarters.
func Estimate(size int, text string) float64 {
	em := float64(size)
	var w float64
	for _, r := range text {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += em
		default:
			w += 0.75 * em
		}
	}
	return w
}
