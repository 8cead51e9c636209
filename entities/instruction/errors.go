package instruction

import (
	"fmt"
	"strings"
)

// UnknownFieldError reports top-level keys outside the declared schema.
// Extra keys are a hard failure rather than being silently dropped: the
// model is known to hallucinate structure, and the retry prompt needs to
// name the exact offense.
type UnknownFieldError struct {
	Fields []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field(s) in instruction: %s", strings.Join(e.Fields, ", "))
}

// InvalidBrushError reports a brush outside the allowed set for the mode.
type InvalidBrushError struct {
	Brush   string
	Allowed []string
}

func (e *InvalidBrushError) Error() string {
	return fmt.Sprintf("invalid brush %q: must be one of %s", e.Brush, strings.Join(e.Allowed, ", "))
}

// InvalidColorError reports a missing or malformed hex color.
type InvalidColorError struct {
	Color   string
	Missing bool
}

func (e *InvalidColorError) Error() string {
	if e.Missing {
		return "missing required color (expected #rrggbb)"
	}
	return fmt.Sprintf("invalid color %q: expected #rrggbb", e.Color)
}

// StrokeShapeMismatchError reports a stroke whose arrays violate the shape
// invariants. Stroke is the zero-based index of the offending stroke, or -1
// when the strokes array itself is unusable.
type StrokeShapeMismatchError struct {
	Stroke int
	Reason string
}

func (e *StrokeShapeMismatchError) Error() string {
	if e.Stroke < 0 {
		return fmt.Sprintf("invalid strokes: %s", e.Reason)
	}
	return fmt.Sprintf("invalid stroke %d: %s", e.Stroke, e.Reason)
}

// InvalidStrokeHintError reports an interpolator precondition violation.
type InvalidStrokeHintError struct {
	Reason string
}

func (e *InvalidStrokeHintError) Error() string {
	return fmt.Sprintf("invalid stroke hint: %s", e.Reason)
}
