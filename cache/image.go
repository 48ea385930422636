package cache

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/image/draw"

	"github.com/gogpu/ggstream/command"
)

// ImageMeta describes a cached image.
type ImageMeta struct {
	Width, Height int
}

// ImageHandle is a toolkit image together with the transient transform it
// is currently drawn with. Only the pixels identify the image; the
// transform never affects its id.
type ImageHandle struct {
	Image     image.Image
	Transform command.Matrix
}

// ImageCache assigns ids to images by pixel content. Payloads are PNG.
type ImageCache struct {
	*Store[ImageMeta]
}

// NewImageCache creates an image cache with the given number of ids.
func NewImageCache(capacity int) *ImageCache {
	return &ImageCache{Store: newStore[ImageMeta]("image", capacity)}
}

// IDFor returns the id of img. isNew reports whether the PNG payload must
// be transmitted. Images with equal bounds size and equal pixels share one
// id whatever their concrete type.
func (c *ImageCache) IDFor(img image.Image) (id ID, isNew bool, err error) {
	if img == nil {
		return 0, false, ErrNilImage
	}
	pix := canonical(img)
	return c.Insert(hashPixels(pix), encodePNG(pix))
}

// IDForTarget is IDFor that also retains the id for target until the
// target is released.
func (c *ImageCache) IDForTarget(target command.Target, img image.Image) (id ID, isNew bool, err error) {
	if img == nil {
		return 0, false, ErrNilImage
	}
	pix := canonical(img)
	return c.InsertFor(target, hashPixels(pix), encodePNG(pix))
}

func encodePNG(pix *image.NRGBA) func() ([]byte, ImageMeta, error) {
	return func() ([]byte, ImageMeta, error) {
		var buf bytes.Buffer
		if err := png.Encode(&buf, pix); err != nil {
			return nil, ImageMeta{}, fmt.Errorf("cache: encode image: %w", err)
		}
		b := pix.Bounds()
		return buf.Bytes(), ImageMeta{Width: b.Dx(), Height: b.Dy()}, nil
	}
}

// IDForHandle returns the id of the handle's pixels.
func (c *ImageCache) IDForHandle(h ImageHandle) (ID, bool, error) {
	return c.IDFor(h.Image)
}

// ImageSize returns the dimensions of the image cached under id.
func (c *ImageCache) ImageSize(id uint16) (width, height int, ok bool) {
	m, ok := c.Meta(id)
	return m.Width, m.Height, ok
}

// canonical converts img to NRGBA with its origin at (0, 0).
func canonical(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// hashPixels hashes the dimensions and pixels of img.
func hashPixels(img *image.NRGBA) Hash {
	h, _ := blake2b.New256(nil) // only fails for keys longer than 64 bytes
	b := img.Bounds()
	var dims [8]byte
	binary.BigEndian.PutUint32(dims[:4], uint32(b.Dx()))
	binary.BigEndian.PutUint32(dims[4:], uint32(b.Dy()))
	h.Write(dims[:])
	h.Write(img.Pix[:4*b.Dx()*b.Dy()])

	var sum Hash
	h.Sum(sum[:0])
	return sum
}
