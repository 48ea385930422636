// Package shrink turns raw per-target command batches into minimal
// equivalent batches.
//
// Shrinking concatenates all batches of a target in arrival order and then
// walks the commands once, tracking the current value of every graphics
// state kind:
//
//   - A state command only updates the tracked value. It is emitted right
//     before the next surviving drawing command, and only when its value
//     differs from the value last emitted for that kind.
//   - A drawing command whose bounds, under the tracked transform, lie
//     entirely outside the tracked clip is dropped.
//   - Surviving commands keep their relative order. Identical drawing
//     commands are never merged.
//
// A batch with no visible drawing command therefore shrinks to nothing,
// and targets whose output is empty produce no batch at all.
//
// A [Shrinker] treats every call as independent. A [Stream] keeps each
// target's state between calls for producers that flush repeatedly.
package shrink
