package shrink

import (
	"math"
	"unicode/utf8"

	"github.com/gogpu/ggstream/command"
)

// defaultFontSize is the size assumed for text drawn before any SetFont.
const defaultFontSize = 12

// bounds returns the user-space extent of a drawing command. It reports
// false when the extent cannot be determined; such commands are never culled.
func (s *Shrinker) bounds(t *tracker, c command.Command) (command.Rect, bool) {
	switch c := c.(type) {
	case command.DrawLineCommand:
		r := command.NewRectFromPoints(float64(c.X1), float64(c.Y1), float64(c.X2), float64(c.Y2))
		return r.Inflate(halfWidth(t.stroke())), true

	case command.PaintRectCommand:
		return paintBounds(t, c.PaintType, command.NewRect(c.X, c.Y, c.Width, c.Height)), true

	case command.PaintRoundRectCommand:
		return paintBounds(t, c.PaintType, intRect(c.X, c.Y, c.Width, c.Height)), true

	case command.PaintOvalCommand:
		return paintBounds(t, c.PaintType, intRect(c.X, c.Y, c.Width, c.Height)), true

	case command.PaintArcCommand:
		return paintBounds(t, c.PaintType, intRect(c.X, c.Y, c.Width, c.Height)), true

	case command.DrawPolylineCommand:
		r, ok := command.PolyBounds(c.Points)
		if !ok {
			return command.Rect{}, true
		}
		return r.Inflate(halfWidth(t.stroke())), true

	case command.PaintPolygonCommand:
		r, ok := command.PolyBounds(c.Points)
		if !ok {
			return command.Rect{}, true
		}
		return paintBounds(t, c.PaintType, r), true

	case command.PaintPathCommand:
		r, ok := c.Path.Bounds()
		if !ok {
			return command.Rect{}, true
		}
		return paintBounds(t, c.PaintType, r), true

	case command.DrawStringCommand:
		return s.textBounds(t, c), true

	case command.DrawImageCommand:
		return s.imageBounds(c)

	case command.CopyAreaCommand:
		src := intRect(c.X, c.Y, c.Width, c.Height)
		return src.Union(src.Offset(float64(c.DX), float64(c.DY))), true

	default:
		// Rendered and renderable image markers have no geometry.
		return command.Rect{}, false
	}
}

func intRect(x, y, width, height int) command.Rect {
	return command.NewRect(float64(x), float64(y), float64(width), float64(height))
}

// halfWidth is the distance a stroke extends past the outline.
func halfWidth(s command.Stroke) float64 {
	return math.Max(s.Width/2, 0.5)
}

// paintBounds grows the outline of DRAW operations by half the stroke width.
func paintBounds(t *tracker, pt command.PaintType, r command.Rect) command.Rect {
	if pt == command.PaintDraw {
		return r.Inflate(halfWidth(t.stroke()))
	}
	return r
}

// textBounds spans the run from one em above the baseline to a quarter em
// below it.
func (s *Shrinker) textBounds(t *tracker, c command.DrawStringCommand) command.Rect {
	font := t.font()
	size := float64(font.Size)

	width := c.DesiredWidth
	if width <= 0 && s.opts.Measurer != nil {
		if w, ok := s.opts.Measurer.Measure(font.Font, font.Size, c.Text); ok {
			width = w
		}
	}
	if width <= 0 {
		// Without metrics assume every rune is one em wide.
		width = float64(utf8.RuneCountInString(c.Text)) * size
	}

	return command.Rect{
		MinX: c.X,
		MinY: c.Y - size,
		MaxX: c.X + width,
		MaxY: c.Y + size/4,
	}
}

func (s *Shrinker) imageBounds(c command.DrawImageCommand) (command.Rect, bool) {
	info := c.Info
	switch info.Kind {
	case command.PlaceInRect:
		return intRect(info.X, info.Y, info.Width, info.Height), true

	case command.PlaceArea:
		return command.NewRectFromPoints(
			float64(info.DX1), float64(info.DY1),
			float64(info.DX2), float64(info.DY2),
		), true

	case command.PlaceAtPoint:
		w, h, ok := s.imageSize(c.Image)
		if !ok {
			return command.Rect{}, false
		}
		return intRect(info.X, info.Y, w, h), true

	case command.PlaceTransform:
		w, h, ok := s.imageSize(c.Image)
		if !ok {
			return command.Rect{}, false
		}
		return info.Transform.TransformRect(intRect(0, 0, w, h)), true

	default:
		return command.Rect{}, false
	}
}

func (s *Shrinker) imageSize(ref command.ImageRef) (int, int, bool) {
	if ref.Kind != command.ImageCached || s.opts.Sizer == nil || ref.ID > math.MaxUint16 {
		return 0, 0, false
	}
	return s.opts.Sizer.ImageSize(uint16(ref.ID))
}
