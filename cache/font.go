package cache

import (
	"errors"
	"fmt"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/ggstream/command"
)

// FontMeta describes a cached font file.
type FontMeta struct {
	Family string
}

// FontCache assigns ids to font files by their bytes. Payloads are the
// font files unchanged.
type FontCache struct {
	*Store[FontMeta]
}

// NewFontCache creates a font cache with the given number of ids.
func NewFontCache(capacity int) *FontCache {
	return &FontCache{Store: newStore[FontMeta]("font", capacity)}
}

// IDFor returns the id of the font file data. It fails with ErrInvalidFont
// when data is not a TrueType or OpenType font.
func (c *FontCache) IDFor(data []byte) (id ID, isNew bool, err error) {
	return c.Insert(HashBytes(data), parseFont(data))
}

// IDForTarget is IDFor that also retains the id for target until the
// target is released.
func (c *FontCache) IDForTarget(target command.Target, data []byte) (id ID, isNew bool, err error) {
	return c.InsertFor(target, HashBytes(data), parseFont(data))
}

func parseFont(data []byte) func() ([]byte, FontMeta, error) {
	return func() ([]byte, FontMeta, error) {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, FontMeta{}, fmt.Errorf("%w: %w", ErrInvalidFont, err)
		}
		family, err := f.Name(nil, sfnt.NameIDFamily)
		if err != nil && !errors.Is(err, sfnt.ErrNotFound) {
			return nil, FontMeta{}, fmt.Errorf("%w: %w", ErrInvalidFont, err)
		}
		return data, FontMeta{Family: family}, nil
	}
}

// Family returns the family name of the font cached under id.
func (c *FontCache) Family(id ID) (string, bool) {
	m, ok := c.Meta(id)
	return m.Family, ok
}
