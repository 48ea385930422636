// Package ggstream streams the paint operations of a GUI application to a
// remote client that reconstructs the picture.
//
// # Overview
//
// Paint calls made by a window toolkit are captured as typed draw commands,
// accumulated per target (an onscreen window or an offscreen surface),
// compacted into a minimal equivalent sequence, and sent to connected clients.
// Large binary assets (images, font files) are sent once and referenced
// afterwards by small integer ids.
//
// # Architecture
//
// The module is organized into:
//   - command: geometry and state primitives, the command model, targets
//   - queue: per-target accumulation with a fluent command builder
//   - shrink: state deduplication and clip-aware culling of batches
//   - cache: content-addressed id assignment for images and fonts
//   - handshake: encoding and compression negotiation
//   - interest: per-target client interest and repaint gating
//   - wire: message encodings and compressions
//   - fontmetrics: text advance measurement for culling
//   - server: websocket transport and the periodic flush loop
//
// # Logging
//
// ggstream produces no log output by default. Call [SetLogger] to enable it.
package ggstream
