package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ggstream/command"
)

func TestFontCache(t *testing.T) {
	c := NewFontCache(0)

	id, isNew, err := c.IDFor(goregular.TTF)
	require.NoError(t, err)
	assert.True(t, isNew)

	again, isNew, err := c.IDFor(append([]byte(nil), goregular.TTF...))
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, id, again)

	bold, isNew, err := c.IDFor(gobold.TTF)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEqual(t, id, bold)

	family, ok := c.Family(id)
	assert.True(t, ok)
	assert.Equal(t, "Go", family)

	payload, err := c.Payload(id)
	require.NoError(t, err)
	assert.Equal(t, goregular.TTF, payload)
}

func TestFontCacheRejectsGarbage(t *testing.T) {
	c := NewFontCache(0)
	_, _, err := c.IDFor([]byte("definitely not a font"))
	assert.ErrorIs(t, err, ErrInvalidFont)
	assert.Zero(t, c.Len())

	_, ok := c.Family(0)
	assert.False(t, ok)
}

func TestFontCacheGarbageKeepsFullCache(t *testing.T) {
	c := NewFontCache(1)
	id, _, err := c.IDFor(goregular.TTF)
	require.NoError(t, err)

	_, _, err = c.IDFor([]byte("definitely not a font"))
	assert.ErrorIs(t, err, ErrInvalidFont)

	family, ok := c.Family(id)
	assert.True(t, ok, "a rejected font must not evict a valid one")
	assert.Equal(t, "Go", family)
}

func TestFontCacheIDForTarget(t *testing.T) {
	c := NewFontCache(1)
	id, _, err := c.IDForTarget(command.Offscreen(1), goregular.TTF)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Stats().Retained)

	_, _, err = c.IDFor(gobold.TTF)
	assert.ErrorIs(t, err, ErrExhausted)
	_, ok := c.Family(id)
	assert.True(t, ok)
}
