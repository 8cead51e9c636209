// Package instruction defines the drawing instruction data model and the
// validation layer that turns untrusted model output into a replayable
// instruction.
package instruction

// Point is a single canvas position.
type Point struct {
	X float64
	Y float64
}

// StrokeHint is one stroke as emitted by the model: sparse control points
// plus optional per-segment speed codes (1 fast .. 5 slow). When Speeds is
// present its length is len(Points)-1.
type StrokeHint struct {
	Points      []Point
	Speeds      []int
	Description string
}

// Stroke is a validated stroke: the original sparse hint retained for audit
// and logging, and the expanded path used for replay. Expanded is never
// shorter than the hint.
type Stroke struct {
	Hint     StrokeHint
	Expanded []Point
}

// Instruction is the validated output of one request cycle. It is immutable
// after validation succeeds: the caller hands it downstream and discards it.
type Instruction struct {
	Brush     string
	Color     string
	Mood      string
	Strokes   []Stroke
	Reasoning string
}

// Bounds is the coordinate clamp region for a canvas.
type Bounds struct {
	XMin float64
	XMax float64
	YMin float64
	YMax float64
}

// ClampX clamps x into the horizontal extent.
func (b Bounds) ClampX(x float64) float64 {
	return clamp(x, b.XMin, b.XMax)
}

// ClampY clamps y into the vertical extent.
func (b Bounds) ClampY(y float64) float64 {
	return clamp(y, b.YMin, b.YMax)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Config declares the schema an instruction is validated against.
type Config struct {
	AllowedBrushes  []string
	Bounds          Bounds
	MaxStrokePoints int  // upper bound on control points per stroke
	RequireColor    bool // color mandatory when true; validated whenever present
	AllowMood       bool // accept an optional mood field
	MaxTextLength   int  // cap for description and reasoning text
}

// FreehandConfig matches the drawing canvas interface: six brushes, fixed
// per-brush colors, 850x500 pixels.
func FreehandConfig() Config {
	return Config{
		AllowedBrushes:  []string{"pen", "marker", "rainbow", "wiggle", "spray", "fountain"},
		Bounds:          Bounds{XMin: 0, XMax: 850, YMin: 0, YMax: 500},
		MaxStrokePoints: 8,
		MaxTextLength:   100,
	}
}

// MoodConfig is the freehand schema plus the mood field.
func MoodConfig() Config {
	cfg := FreehandConfig()
	cfg.AllowMood = true
	return cfg
}

// PaintingConfig matches the painting interface: four textured brushes with
// an explicit color, 800x600 pixels.
func PaintingConfig() Config {
	return Config{
		AllowedBrushes:  []string{"flowing", "watercolor", "crayon", "oil"},
		Bounds:          Bounds{XMin: 0, XMax: 800, YMin: 0, YMax: 600},
		MaxStrokePoints: 8,
		RequireColor:    true,
		MaxTextLength:   100,
	}
}
