package command

import (
	"fmt"
	"strconv"
	"strings"
)

// TargetKind distinguishes windows from offscreen surfaces.
type TargetKind uint8

const (
	TargetOnscreen  TargetKind = iota // a window
	TargetOffscreen                   // an offscreen surface
)

// Target identifies an independent command stream. Graphics state is
// never shared between targets.
//
// Target is comparable and used as a map key.
type Target struct {
	Kind TargetKind `json:"kind" msgpack:"kind"`
	ID   int        `json:"id" msgpack:"id"`
}

// Onscreen returns the target of a window.
func Onscreen(windowID int) Target {
	return Target{Kind: TargetOnscreen, ID: windowID}
}

// Offscreen returns the target of an offscreen surface.
func Offscreen(surfaceID int) Target {
	return Target{Kind: TargetOffscreen, ID: surfaceID}
}

// String returns "onscreen:<id>" or "offscreen:<id>".
func (t Target) String() string {
	if t.Kind == TargetOffscreen {
		return "offscreen:" + strconv.Itoa(t.ID)
	}
	return "onscreen:" + strconv.Itoa(t.ID)
}

// Compare orders targets with offscreen surfaces first, then by id.
// Offscreen surfaces come first because windows may draw them.
func (t Target) Compare(other Target) int {
	if t.Kind != other.Kind {
		if t.Kind == TargetOffscreen {
			return -1
		}
		return 1
	}
	switch {
	case t.ID < other.ID:
		return -1
	case t.ID > other.ID:
		return 1
	default:
		return 0
	}
}

// ParseTarget parses the String form of a target.
func ParseTarget(s string) (Target, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok {
		return Target{}, fmt.Errorf("command: invalid target %q", s)
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return Target{}, fmt.Errorf("command: invalid target id in %q: %w", s, err)
	}
	switch kind {
	case "onscreen":
		return Onscreen(n), nil
	case "offscreen":
		return Offscreen(n), nil
	default:
		return Target{}, fmt.Errorf("command: unknown target kind %q", kind)
	}
}

// Batch is the ordered commands of one target from one flush cycle.
type Batch struct {
	Target   Target
	Commands []Command
}

// Len returns the number of commands in the batch.
func (b Batch) Len() int {
	return len(b.Commands)
}
