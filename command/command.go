package command

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// State commands
	CmdSetClip      CommandType = iota // Set clipping region
	CmdSetTransform                    // Set transformation matrix
	CmdSetStroke                       // Set stroke descriptor
	CmdSetPaint                        // Set paint
	CmdSetComposite                    // Set composite mode
	CmdSetFont                         // Set font id and size

	// Drawing commands
	CmdDrawLine            // Draw a line segment
	CmdPaintRect           // Fill or stroke a rectangle
	CmdPaintRoundRect      // Fill or stroke a rounded rectangle
	CmdPaintOval           // Fill or stroke an ellipse
	CmdPaintArc            // Fill or stroke an arc
	CmdDrawPolyline        // Stroke an open polyline
	CmdPaintPolygon        // Fill or stroke a closed polygon
	CmdDrawString          // Draw a run of text
	CmdDrawImage           // Draw an image
	CmdPaintPath           // Fill or stroke a path
	CmdCopyArea            // Copy pixels within the target
	CmdDrawRenderedImage   // Unsupported rendered image, kept as a marker
	CmdDrawRenderableImage // Unsupported renderable image, kept as a marker
)

// commandTypeNames maps CommandType values to their wire names.
var commandTypeNames = [...]string{
	CmdSetClip:             "SetClip",
	CmdSetTransform:        "SetTransform",
	CmdSetStroke:           "SetStroke",
	CmdSetPaint:            "SetPaint",
	CmdSetComposite:        "SetComposite",
	CmdSetFont:             "SetFont",
	CmdDrawLine:            "DrawLine",
	CmdPaintRect:           "PaintRect",
	CmdPaintRoundRect:      "PaintRoundRect",
	CmdPaintOval:           "PaintOval",
	CmdPaintArc:            "PaintArc",
	CmdDrawPolyline:        "DrawPolyline",
	CmdPaintPolygon:        "PaintPolygon",
	CmdDrawString:          "DrawString",
	CmdDrawImage:           "DrawImage",
	CmdPaintPath:           "PaintPath",
	CmdCopyArea:            "CopyArea",
	CmdDrawRenderedImage:   "DrawRenderedImage",
	CmdDrawRenderableImage: "DrawRenderableImage",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// ParseCommandType returns the CommandType with the given wire name.
func ParseCommandType(name string) (CommandType, bool) {
	for i, n := range commandTypeNames {
		if n == name {
			return CommandType(i), true
		}
	}
	return 0, false
}

// IsState reports whether commands of this type set graphics state.
func (c CommandType) IsState() bool {
	return c <= CmdSetFont
}

// StateKind returns the slot index of a state command type, in the range
// [0, NumStateKinds). It panics for drawing command types.
func (c CommandType) StateKind() int {
	if !c.IsState() {
		panic("command: " + c.String() + " is not a state command")
	}
	return int(c)
}

// NumStateKinds is the number of distinct graphics state kinds.
const NumStateKinds = int(CmdSetFont) + 1

// Command is the interface implemented by all command types.
//
// The set of implementations is closed; callers switch over the concrete
// types. All commands are plain values and safe to share once built.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// PaintType selects between filling the interior and stroking the outline.
type PaintType uint8

const (
	PaintFill PaintType = iota
	PaintDraw
)

// String returns "FILL" or "DRAW".
func (p PaintType) String() string {
	if p == PaintDraw {
		return "DRAW"
	}
	return "FILL"
}

// FontID references a font file in the font cache.
type FontID int32

// NoFont marks text drawn with a font that has no file behind it.
const NoFont FontID = -1

// ImageKind tells how an ImageRef.ID is resolved.
type ImageKind uint8

const (
	ImageCached  ImageKind = iota // ID is a content cache id
	ImageSurface                  // ID is an offscreen surface id
	ImageUnknown                  // image could not be captured
)

// ImageRef identifies the source of a DrawImage command.
type ImageRef struct {
	Kind ImageKind `json:"kind" msgpack:"kind"`
	ID   uint32    `json:"id" msgpack:"id"`
}

// CachedImage references an entry of the image cache.
func CachedImage(id uint16) ImageRef {
	return ImageRef{Kind: ImageCached, ID: uint32(id)}
}

// SurfaceImage references the contents of an offscreen surface.
func SurfaceImage(surfaceID int) ImageRef {
	return ImageRef{Kind: ImageSurface, ID: uint32(surfaceID)}
}

// PlacementKind identifies the variant held by an ImageInfo.
type PlacementKind uint8

const (
	PlaceAtPoint   PlacementKind = iota // natural size at (X, Y)
	PlaceInRect                         // scaled into X, Y, Width, Height
	PlaceArea                           // source corners mapped to destination corners
	PlaceTransform                      // drawn through Transform
)

// ImageInfo describes where an image is drawn.
type ImageInfo struct {
	Kind PlacementKind `json:"kind" msgpack:"kind"`

	X      int `json:"x,omitempty" msgpack:"x,omitempty"`
	Y      int `json:"y,omitempty" msgpack:"y,omitempty"`
	Width  int `json:"width,omitempty" msgpack:"width,omitempty"`
	Height int `json:"height,omitempty" msgpack:"height,omitempty"`

	// Destination and source corners for PlaceArea.
	DX1 int `json:"dx1,omitempty" msgpack:"dx1,omitempty"`
	DY1 int `json:"dy1,omitempty" msgpack:"dy1,omitempty"`
	DX2 int `json:"dx2,omitempty" msgpack:"dx2,omitempty"`
	DY2 int `json:"dy2,omitempty" msgpack:"dy2,omitempty"`
	SX1 int `json:"sx1,omitempty" msgpack:"sx1,omitempty"`
	SY1 int `json:"sy1,omitempty" msgpack:"sy1,omitempty"`
	SX2 int `json:"sx2,omitempty" msgpack:"sx2,omitempty"`
	SY2 int `json:"sy2,omitempty" msgpack:"sy2,omitempty"`

	Transform Matrix `json:"transform" msgpack:"transform"`

	// Background fills transparent pixels when set.
	Background *uint32 `json:"background,omitempty" msgpack:"background,omitempty"`
}

// AtPoint places an image at its natural size.
func AtPoint(x, y int) ImageInfo {
	return ImageInfo{Kind: PlaceAtPoint, X: x, Y: y}
}

// InRect scales an image into a rectangle.
func InRect(x, y, width, height int) ImageInfo {
	return ImageInfo{Kind: PlaceInRect, X: x, Y: y, Width: width, Height: height}
}

// Area maps the source rectangle (sx1, sy1)-(sx2, sy2) of an image onto the
// destination rectangle (dx1, dy1)-(dx2, dy2).
func Area(dx1, dy1, dx2, dy2, sx1, sy1, sx2, sy2 int) ImageInfo {
	return ImageInfo{
		Kind: PlaceArea,
		DX1:  dx1,
		DY1:  dy1,
		DX2:  dx2,
		DY2:  dy2,
		SX1:  sx1,
		SY1:  sy1,
		SX2:  sx2,
		SY2:  sy2,
	}
}

// WithTransform draws an image through an affine transform.
func WithTransform(m Matrix) ImageInfo {
	return ImageInfo{Kind: PlaceTransform, Transform: m}
}

// WithBackground returns a copy of info with a background color.
func (info ImageInfo) WithBackground(argb uint32) ImageInfo {
	info.Background = &argb
	return info
}

// --------------------------------------------------------------------------
// State Commands
// --------------------------------------------------------------------------

// SetClipCommand sets the clipping region.
type SetClipCommand struct {
	Clip Clip `json:"clip" msgpack:"clip"`
}

// Type implements Command.
func (SetClipCommand) Type() CommandType { return CmdSetClip }

// SetTransformCommand sets the current transformation matrix.
type SetTransformCommand struct {
	Matrix Matrix `json:"matrix" msgpack:"matrix"`
}

// Type implements Command.
func (SetTransformCommand) Type() CommandType { return CmdSetTransform }

// SetStrokeCommand sets the stroke used by DRAW operations.
type SetStrokeCommand struct {
	Stroke Stroke `json:"stroke" msgpack:"stroke"`
}

// Type implements Command.
func (SetStrokeCommand) Type() CommandType { return CmdSetStroke }

// SetPaintCommand sets the paint used by all drawing operations.
type SetPaintCommand struct {
	Paint Paint `json:"paint" msgpack:"paint"`
}

// Type implements Command.
func (SetPaintCommand) Type() CommandType { return CmdSetPaint }

// SetCompositeCommand sets the compositing mode.
type SetCompositeCommand struct {
	Composite Composite `json:"composite" msgpack:"composite"`
}

// Type implements Command.
func (SetCompositeCommand) Type() CommandType { return CmdSetComposite }

// SetFontCommand sets the font for DrawString.
type SetFontCommand struct {
	Font      FontID `json:"font" msgpack:"font"`
	Size      int    `json:"size" msgpack:"size"`
	Ligatures bool   `json:"ligatures,omitempty" msgpack:"ligatures,omitempty"`
}

// Type implements Command.
func (SetFontCommand) Type() CommandType { return CmdSetFont }

// --------------------------------------------------------------------------
// Drawing Commands
// --------------------------------------------------------------------------

// DrawLineCommand strokes a line from (X1, Y1) to (X2, Y2).
type DrawLineCommand struct {
	X1 int `json:"x1" msgpack:"x1"`
	Y1 int `json:"y1" msgpack:"y1"`
	X2 int `json:"x2" msgpack:"x2"`
	Y2 int `json:"y2" msgpack:"y2"`
}

// Type implements Command.
func (DrawLineCommand) Type() CommandType { return CmdDrawLine }

// PaintRectCommand fills or strokes a rectangle.
type PaintRectCommand struct {
	PaintType PaintType `json:"paintType" msgpack:"paintType"`
	X         float64   `json:"x" msgpack:"x"`
	Y         float64   `json:"y" msgpack:"y"`
	Width     float64   `json:"width" msgpack:"width"`
	Height    float64   `json:"height" msgpack:"height"`
}

// Type implements Command.
func (PaintRectCommand) Type() CommandType { return CmdPaintRect }

// PaintRoundRectCommand fills or strokes a rectangle with rounded corners.
type PaintRoundRectCommand struct {
	PaintType PaintType `json:"paintType" msgpack:"paintType"`
	X         int       `json:"x" msgpack:"x"`
	Y         int       `json:"y" msgpack:"y"`
	Width     int       `json:"width" msgpack:"width"`
	Height    int       `json:"height" msgpack:"height"`
	ArcWidth  int       `json:"arcWidth" msgpack:"arcWidth"`
	ArcHeight int       `json:"arcHeight" msgpack:"arcHeight"`
}

// Type implements Command.
func (PaintRoundRectCommand) Type() CommandType { return CmdPaintRoundRect }

// PaintOvalCommand fills or strokes the ellipse inscribed in a rectangle.
type PaintOvalCommand struct {
	PaintType PaintType `json:"paintType" msgpack:"paintType"`
	X         int       `json:"x" msgpack:"x"`
	Y         int       `json:"y" msgpack:"y"`
	Width     int       `json:"width" msgpack:"width"`
	Height    int       `json:"height" msgpack:"height"`
}

// Type implements Command.
func (PaintOvalCommand) Type() CommandType { return CmdPaintOval }

// PaintArcCommand fills or strokes an elliptical arc. Angles are in degrees.
type PaintArcCommand struct {
	PaintType  PaintType `json:"paintType" msgpack:"paintType"`
	X          int       `json:"x" msgpack:"x"`
	Y          int       `json:"y" msgpack:"y"`
	Width      int       `json:"width" msgpack:"width"`
	Height     int       `json:"height" msgpack:"height"`
	StartAngle int       `json:"startAngle" msgpack:"startAngle"`
	ArcAngle   int       `json:"arcAngle" msgpack:"arcAngle"`
}

// Type implements Command.
func (PaintArcCommand) Type() CommandType { return CmdPaintArc }

// DrawPolylineCommand strokes connected line segments.
type DrawPolylineCommand struct {
	Points []Point `json:"points" msgpack:"points"`
}

// Type implements Command.
func (DrawPolylineCommand) Type() CommandType { return CmdDrawPolyline }

// PaintPolygonCommand fills or strokes a closed polygon.
type PaintPolygonCommand struct {
	PaintType PaintType `json:"paintType" msgpack:"paintType"`
	Points    []Point   `json:"points" msgpack:"points"`
}

// Type implements Command.
func (PaintPolygonCommand) Type() CommandType { return CmdPaintPolygon }

// DrawStringCommand draws text with its baseline origin at (X, Y).
// DesiredWidth is the advance the toolkit measured, or 0 if unknown.
type DrawStringCommand struct {
	Text         string  `json:"text" msgpack:"text"`
	X            float64 `json:"x" msgpack:"x"`
	Y            float64 `json:"y" msgpack:"y"`
	DesiredWidth float64 `json:"desiredWidth" msgpack:"desiredWidth"`
}

// Type implements Command.
func (DrawStringCommand) Type() CommandType { return CmdDrawString }

// DrawImageCommand draws an image.
type DrawImageCommand struct {
	Image ImageRef  `json:"image" msgpack:"image"`
	Info  ImageInfo `json:"info" msgpack:"info"`
}

// Type implements Command.
func (DrawImageCommand) Type() CommandType { return CmdDrawImage }

// PaintPathCommand fills or strokes a path.
type PaintPathCommand struct {
	PaintType PaintType `json:"paintType" msgpack:"paintType"`
	Path      Path      `json:"path" msgpack:"path"`
}

// Type implements Command.
func (PaintPathCommand) Type() CommandType { return CmdPaintPath }

// CopyAreaCommand copies the rectangle X, Y, Width, Height by (DX, DY).
type CopyAreaCommand struct {
	X      int `json:"x" msgpack:"x"`
	Y      int `json:"y" msgpack:"y"`
	Width  int `json:"width" msgpack:"width"`
	Height int `json:"height" msgpack:"height"`
	DX     int `json:"dx" msgpack:"dx"`
	DY     int `json:"dy" msgpack:"dy"`
}

// Type implements Command.
func (CopyAreaCommand) Type() CommandType { return CmdCopyArea }

// DrawRenderedImageCommand marks a rendered image the toolkit could not
// capture. Clients draw nothing but may report it.
type DrawRenderedImageCommand struct{}

// Type implements Command.
func (DrawRenderedImageCommand) Type() CommandType { return CmdDrawRenderedImage }

// DrawRenderableImageCommand marks a renderable image the toolkit could not
// capture.
type DrawRenderableImageCommand struct{}

// Type implements Command.
func (DrawRenderableImageCommand) Type() CommandType { return CmdDrawRenderableImage }

// New returns a zero command of the given type, or nil for an unknown type.
// Decoders use it to allocate the value they unmarshal into.
func New(t CommandType) Command {
	switch t {
	case CmdSetClip:
		return &SetClipCommand{}
	case CmdSetTransform:
		return &SetTransformCommand{}
	case CmdSetStroke:
		return &SetStrokeCommand{}
	case CmdSetPaint:
		return &SetPaintCommand{}
	case CmdSetComposite:
		return &SetCompositeCommand{}
	case CmdSetFont:
		return &SetFontCommand{}
	case CmdDrawLine:
		return &DrawLineCommand{}
	case CmdPaintRect:
		return &PaintRectCommand{}
	case CmdPaintRoundRect:
		return &PaintRoundRectCommand{}
	case CmdPaintOval:
		return &PaintOvalCommand{}
	case CmdPaintArc:
		return &PaintArcCommand{}
	case CmdDrawPolyline:
		return &DrawPolylineCommand{}
	case CmdPaintPolygon:
		return &PaintPolygonCommand{}
	case CmdDrawString:
		return &DrawStringCommand{}
	case CmdDrawImage:
		return &DrawImageCommand{}
	case CmdPaintPath:
		return &PaintPathCommand{}
	case CmdCopyArea:
		return &CopyAreaCommand{}
	case CmdDrawRenderedImage:
		return &DrawRenderedImageCommand{}
	case CmdDrawRenderableImage:
		return &DrawRenderableImageCommand{}
	default:
		return nil
	}
}

// Deref converts a pointer returned by New back into a command value.
func Deref(c Command) Command {
	switch v := c.(type) {
	case *SetClipCommand:
		return *v
	case *SetTransformCommand:
		return *v
	case *SetStrokeCommand:
		return *v
	case *SetPaintCommand:
		return *v
	case *SetCompositeCommand:
		return *v
	case *SetFontCommand:
		return *v
	case *DrawLineCommand:
		return *v
	case *PaintRectCommand:
		return *v
	case *PaintRoundRectCommand:
		return *v
	case *PaintOvalCommand:
		return *v
	case *PaintArcCommand:
		return *v
	case *DrawPolylineCommand:
		return *v
	case *PaintPolygonCommand:
		return *v
	case *DrawStringCommand:
		return *v
	case *DrawImageCommand:
		return *v
	case *PaintPathCommand:
		return *v
	case *CopyAreaCommand:
		return *v
	case *DrawRenderedImageCommand:
		return *v
	case *DrawRenderableImageCommand:
		return *v
	default:
		return c
	}
}
