package main

import (
	"image"
	"image/color"
	"log/slog"
	"math"
	"sync"

	"golang.org/x/image/colornames"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ggstream/command"
	"github.com/gogpu/ggstream/server"
)

const (
	demoWidth  = 800
	demoHeight = 600
)

// demoToolkit paints a fixed scene into every window a client asks for.
type demoToolkit struct {
	windows int

	srv    *server.Server
	font   command.FontID
	sprite command.ImageRef

	mu     sync.Mutex
	bounds map[command.Target]command.Rect
}

func (d *demoToolkit) attach(srv *server.Server) error {
	d.srv = srv
	d.bounds = make(map[command.Target]command.Rect)

	img := sprite(64)
	for i := range d.windows {
		target := command.Onscreen(i)
		var err error
		if d.font, err = srv.FontID(target, goregular.TTF); err != nil {
			return err
		}
		if d.sprite, err = srv.ImageID(target, img); err != nil {
			return err
		}
		d.bounds[target] = command.NewRect(0, 0, demoWidth, demoHeight)
	}
	return nil
}

func (d *demoToolkit) Repaint(target command.Target) {
	d.mu.Lock()
	bounds, ok := d.bounds[target]
	d.mu.Unlock()
	if !ok {
		slog.Warn("demo: repaint for unknown window", "target", target.String())
		return
	}
	d.paint(target, bounds)
}

func (d *demoToolkit) Resize(target command.Target, bounds command.Rect) {
	d.mu.Lock()
	_, ok := d.bounds[target]
	if ok {
		d.bounds[target] = bounds
	}
	d.mu.Unlock()
	if ok {
		d.paint(target, bounds)
	}
}

func (d *demoToolkit) paint(target command.Target, bounds command.Rect) {
	clip := command.RectClip(command.NewRect(0, 0, bounds.Width(), bounds.Height()))
	d.srv.BeginCommand(target).
		SetClip(clip).
		SetTransform(command.Identity()).
		SetPaint(command.GradientPaint(
			command.Pt(0, 0), argb(colornames.Midnightblue),
			command.Pt(0, bounds.Height()), argb(colornames.Steelblue))).
		PaintRect(command.PaintFill, 0, 0, bounds.Width(), bounds.Height())

	d.shapes(target)
	d.rotated(target)
	d.star(target)

	d.srv.BeginCommand(target).
		SetTransform(command.Identity()).
		SetPaint(command.SolidPaint(argb(colornames.White))).
		SetFont(d.font, 18, true).
		DrawString("ggstream "+target.String(), 20, 560, 0)
	d.srv.BeginCommand(target).
		DrawImage(d.sprite, command.AtPoint(700, 480))
}

func (d *demoToolkit) shapes(target command.Target) {
	for i, c := range []color.RGBA{colornames.Tomato, colornames.Lightgreen, colornames.Cornflowerblue} {
		d.srv.BeginCommand(target).
			SetPaint(command.SolidPaint(argb(c))).
			SetComposite(command.Composite{Rule: command.CompositeSrcOver, Alpha: 0.8}).
			PaintOval(command.PaintFill, 90+i*25, 90+(i%2)*50, 120, 120)
	}

	d.srv.BeginCommand(target).
		SetComposite(command.DefaultComposite()).
		SetPaint(command.SolidPaint(argb(colornames.Gold))).
		PaintRoundRect(command.PaintFill, 350, 100, 120, 80, 30, 30)

	stroke := command.DefaultStroke()
	stroke.Width = 4
	d.srv.BeginCommand(target).
		SetStroke(stroke).
		SetPaint(command.SolidPaint(argb(colornames.White))).
		PaintRect(command.PaintDraw, 350, 100, 120, 80)
}

func (d *demoToolkit) rotated(target command.Target) {
	palette := []color.RGBA{
		colornames.Red, colornames.Orange, colornames.Yellow, colornames.Lime,
		colornames.Cyan, colornames.Blue, colornames.Purple, colornames.Magenta,
	}
	for i, c := range palette {
		angle := float64(i) * math.Pi / 4
		m := command.Translate(600, 150).Multiply(command.Rotate(angle))
		d.srv.BeginCommand(target).
			SetTransform(m).
			SetPaint(command.SolidPaint(argb(c))).
			PaintRect(command.PaintFill, -30, -30, 60, 60)
	}
}

func (d *demoToolkit) star(target command.Target) {
	curve := new(command.Path).
		MoveTo(0, 0).
		CubicTo(50, -50, 100, 50, 150, 0).
		CubicTo(200, -30, 250, 30, 300, 0)

	stroke := command.DefaultStroke()
	stroke.Width = 6
	d.srv.BeginCommand(target).
		SetTransform(command.Translate(150, 400)).
		SetStroke(stroke).
		SetPaint(command.SolidPaint(argb(colornames.Darkorange))).
		PaintPath(command.PaintDraw, *curve)

	const points = 5
	star := make([]command.Point, 0, points*2)
	for i := range points * 2 {
		r := 60.0
		if i%2 == 1 {
			r = 30
		}
		angle := float64(i)*math.Pi/points - math.Pi/2
		star = append(star, command.Pt(r*math.Cos(angle), r*math.Sin(angle)))
	}
	d.srv.BeginCommand(target).
		SetTransform(command.Translate(550, 400)).
		SetPaint(command.SolidPaint(argb(colornames.Yellow))).
		PaintPolygon(command.PaintFill, star)
}

// sprite returns a radial fade used as the demo's cached image.
func sprite(size int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := range size {
		for x := range size {
			d := math.Hypot(float64(x)-c, float64(y)-c) / c
			a := uint8(255 * math.Max(0, 1-d))
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 200, B: 80, A: a})
		}
	}
	return img
}

func argb(c color.RGBA) uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
