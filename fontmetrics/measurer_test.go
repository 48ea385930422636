package fontmetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ggstream/cache"
	"github.com/gogpu/ggstream/command"
	"github.com/gogpu/ggstream/shrink"
)

var _ shrink.TextMeasurer = (*Measurer)(nil)

func TestMeasureWithCachedFont(t *testing.T) {
	fonts := cache.NewFontCache(0)
	id, _, err := fonts.IDFor(goregular.TTF)
	require.NoError(t, err)

	m := New(fonts)
	w, ok := m.Measure(command.FontID(id), 12, "Hello")
	require.True(t, ok)
	assert.Greater(t, w, 10.0)
	assert.Less(t, w, 60.0)

	double, ok := m.Measure(command.FontID(id), 24, "Hello")
	require.True(t, ok)
	assert.InDelta(t, 2*w, double, 1.0, "advance scales with size")

	longer, _ := m.Measure(command.FontID(id), 12, "Hello, world")
	assert.Greater(t, longer, w)
}

func TestMeasureMonospace(t *testing.T) {
	fonts := cache.NewFontCache(0)
	id, _, err := fonts.IDFor(gomono.TTF)
	require.NoError(t, err)

	m := New(fonts)
	narrow, _ := m.Measure(command.FontID(id), 16, "iiii")
	wide, _ := m.Measure(command.FontID(id), 16, "WWWW")
	assert.InDelta(t, narrow, wide, 0.01)
}

func TestMeasureFallsBack(t *testing.T) {
	m := New(cache.NewFontCache(0))

	w, ok := m.Measure(command.NoFont, 10, "abc")
	require.True(t, ok)
	assert.InDelta(t, 22.5, w, 1e-9)

	w, ok = m.Measure(command.FontID(99), 10, "abc")
	require.True(t, ok, "unknown ids are estimated")
	assert.InDelta(t, 22.5, w, 1e-9)

	_, ok = m.Measure(command.NoFont, 10, "")
	assert.False(t, ok)
	_, ok = m.Measure(command.NoFont, 0, "abc")
	assert.False(t, ok)

	w, _ = New(nil).Measure(0, 10, "abc")
	assert.InDelta(t, 22.5, w, 1e-9)
}

func TestMeasureFollowsRecycledIDs(t *testing.T) {
	fonts := cache.NewFontCache(0)
	id, _, err := fonts.IDFor(goregular.TTF)
	require.NoError(t, err)

	m := New(fonts)
	before, _ := m.Measure(command.FontID(id), 16, "WWWW iiii")

	fonts.Invalidate(id)
	again, _, err := fonts.IDFor(gomono.TTF)
	require.NoError(t, err)
	require.Equal(t, id, again)

	after, _ := m.Measure(command.FontID(id), 16, "WWWW iiii")
	assert.NotEqual(t, before, after, "a recycled id must not reuse the old parsed font")

	m.Forget(id)
	assert.Empty(t, m.fonts)
}

func TestEstimate(t *testing.T) {
	assert.InDelta(t, 30.0, Estimate(10, "abcd"), 1e-9)
	assert.InDelta(t, 20.0, Estimate(10, "世界"), 1e-9)
	assert.Zero(t, Estimate(10, ""))
}
