package queue

import "github.com/gogpu/ggstream/command"

// Builder collects state commands for one drawing operation.
//
// State setters return the builder for chaining. Drawing methods append the
// drawing command, commit everything collected so far to the queue and
// reset the builder, so it can be reused for the next operation.
//
// Example:
//
//	set.Begin(command.Onscreen(1)).
//	    SetClip(command.RectClip(bounds)).
//	    SetTransform(command.Identity()).
//	    SetPaint(command.SolidPaint(0xff0000ff)).
//	    PaintRect(command.PaintFill, 10, 10, 50, 50)
//
// A Builder is not safe for concurrent use.
type Builder struct {
	q    *Queue
	cmds []command.Command
}

func (b *Builder) add(c command.Command) *Builder {
	b.cmds = append(b.cmds, c)
	return b
}

func (b *Builder) commit(c command.Command) {
	b.cmds = append(b.cmds, c)
	b.q.Append(b.cmds...)
	b.cmds = nil
}

// SetClip sets the clipping region.
func (b *Builder) SetClip(c command.Clip) *Builder {
	return b.add(command.SetClipCommand{Clip: c})
}

// SetTransform sets the transformation matrix.
func (b *Builder) SetTransform(m command.Matrix) *Builder {
	return b.add(command.SetTransformCommand{Matrix: m})
}

// SetStroke sets the stroke.
func (b *Builder) SetStroke(s command.Stroke) *Builder {
	return b.add(command.SetStrokeCommand{Stroke: s})
}

// SetPaint sets the paint.
func (b *Builder) SetPaint(p command.Paint) *Builder {
	return b.add(command.SetPaintCommand{Paint: p})
}

// SetComposite sets the composite mode.
func (b *Builder) SetComposite(c command.Composite) *Builder {
	return b.add(command.SetCompositeCommand{Composite: c})
}

// SetFont sets the font and its size in pixels.
func (b *Builder) SetFont(id command.FontID, size int, ligatures bool) *Builder {
	return b.add(command.SetFontCommand{Font: id, Size: size, Ligatures: ligatures})
}

// Commit appends an arbitrary drawing command and commits.
func (b *Builder) Commit(c command.Command) {
	b.commit(c)
}

// DrawLine strokes a line.
func (b *Builder) DrawLine(x1, y1, x2, y2 int) {
	b.commit(command.DrawLineCommand{X1: x1, Y1: y1, X2: x2, Y2: y2})
}

// PaintRect fills or strokes a rectangle.
func (b *Builder) PaintRect(pt command.PaintType, x, y, width, height float64) {
	b.commit(command.PaintRectCommand{PaintType: pt, X: x, Y: y, Width: width, Height: height})
}

// PaintRoundRect fills or strokes a rounded rectangle.
func (b *Builder) PaintRoundRect(pt command.PaintType, x, y, width, height, arcWidth, arcHeight int) {
	b.commit(command.PaintRoundRectCommand{
		PaintType: pt,
		X:         x,
		Y:         y,
		Width:     width,
		Height:    height,
		ArcWidth:  arcWidth,
		ArcHeight: arcHeight,
	})
}

// PaintOval fills or strokes an ellipse.
func (b *Builder) PaintOval(pt command.PaintType, x, y, width, height int) {
	b.commit(command.PaintOvalCommand{PaintType: pt, X: x, Y: y, Width: width, Height: height})
}

// PaintArc fills or strokes an arc.
func (b *Builder) PaintArc(pt command.PaintType, x, y, width, height, startAngle, arcAngle int) {
	b.commit(command.PaintArcCommand{
		PaintType:  pt,
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		StartAngle: startAngle,
		ArcAngle:   arcAngle,
	})
}

// DrawPolyline strokes connected segments.
func (b *Builder) DrawPolyline(points []command.Point) {
	b.commit(command.DrawPolylineCommand{Points: points})
}

// PaintPolygon fills or strokes a polygon.
func (b *Builder) PaintPolygon(pt command.PaintType, points []command.Point) {
	b.commit(command.PaintPolygonCommand{PaintType: pt, Points: points})
}

// DrawString draws text.
func (b *Builder) DrawString(text string, x, y, desiredWidth float64) {
	b.commit(command.DrawStringCommand{Text: text, X: x, Y: y, DesiredWidth: desiredWidth})
}

// DrawImage draws an image.
func (b *Builder) DrawImage(ref command.ImageRef, info command.ImageInfo) {
	b.commit(command.DrawImageCommand{Image: ref, Info: info})
}

// PaintPath fills or strokes a path.
func (b *Builder) PaintPath(pt command.PaintType, p command.Path) {
	b.commit(command.PaintPathCommand{PaintType: pt, Path: p})
}

// CopyArea copies pixels within the target.
func (b *Builder) CopyArea(x, y, width, height, dx, dy int) {
	b.commit(command.CopyAreaCommand{X: x, Y: y, Width: width, Height: height, DX: dx, DY: dy})
}

// DrawRenderedImage records an image the toolkit could not capture.
func (b *Builder) DrawRenderedImage() {
	b.commit(command.DrawRenderedImageCommand{})
}

// DrawRenderableImage records an image the toolkit could not capture.
func (b *Builder) DrawRenderableImage() {
	b.commit(command.DrawRenderableImageCommand{})
}
