// Package command defines the draw commands streamed to remote clients.
//
// A toolkit paints into a [Target] (an onscreen window or an offscreen
// surface). Every paint call becomes a typed [Command]: either a state
// command (SetClip, SetTransform, SetStroke, SetPaint, SetComposite, SetFont)
// or a drawing command (DrawLine, PaintRect, DrawString, DrawImage, ...).
// Drawing commands implicitly depend on the most recent state command of
// each kind in the same target's stream.
//
// Design follows typed command structs for inspectability, the same way a
// recording surface stores its operations. Nested variants (clip shapes,
// paints, image placements) are tagged structs with a Kind field so that
// they encode directly on the wire.
//
// # Example
//
//	cmds := []command.Command{
//	    command.SetClipCommand{Clip: command.RectClip(command.NewRect(0, 0, 100, 100))},
//	    command.SetTransformCommand{Matrix: command.Identity()},
//	    command.PaintRectCommand{PaintType: command.PaintFill, X: 10, Y: 10, Width: 50, Height: 50},
//	}
//	batch := command.Batch{Target: command.Onscreen(1), Commands: cmds}
package command
