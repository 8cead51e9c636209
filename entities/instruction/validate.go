package instruction

import (
	"fmt"
	"regexp"
	"sort"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

const minStrokePoints = 3

// Validate checks an untrusted, untyped structure against cfg and assembles
// the validated Instruction. The input is never decoded directly into a
// trusted type; every field is checked against an explicit whitelist.
//
// Policy: coordinates and speeds are clamped into range, free text is
// truncated, but shape and field violations are hard failures. Errors are
// fail-fast: the first violation encountered is returned so the retry prompt
// can name a single concrete problem.
func Validate(raw map[string]any, cfg Config) (*Instruction, error) {
	if err := checkFields(raw, cfg); err != nil {
		return nil, err
	}

	brush, err := validateBrush(raw["brush"], cfg.AllowedBrushes)
	if err != nil {
		return nil, err
	}

	color, err := validateColor(raw["color"], cfg.RequireColor)
	if err != nil {
		return nil, err
	}

	strokes, err := validateStrokes(raw["strokes"], cfg)
	if err != nil {
		return nil, err
	}

	ins := &Instruction{
		Brush:     brush,
		Color:     color,
		Strokes:   strokes,
		Reasoning: truncateText(text(raw["reasoning"]), cfg.MaxTextLength),
	}
	if cfg.AllowMood {
		ins.Mood = truncateText(text(raw["mood"]), cfg.MaxTextLength)
	}
	return ins, nil
}

// checkFields enforces the strict top-level whitelist.
func checkFields(raw map[string]any, cfg Config) error {
	allowed := map[string]bool{
		"brush":     true,
		"color":     true,
		"strokes":   true,
		"reasoning": true,
		"mood":      cfg.AllowMood,
	}

	var unknown []string
	for key := range raw {
		if !allowed[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &UnknownFieldError{Fields: unknown}
	}
	return nil
}

func validateBrush(v any, allowed []string) (string, error) {
	brush, ok := v.(string)
	if !ok {
		return "", &InvalidBrushError{Brush: fmt.Sprintf("%v", v), Allowed: allowed}
	}
	for _, b := range allowed {
		if brush == b {
			return brush, nil
		}
	}
	return "", &InvalidBrushError{Brush: brush, Allowed: allowed}
}

func validateColor(v any, required bool) (string, error) {
	if v == nil {
		if required {
			return "", &InvalidColorError{Missing: true}
		}
		return "", nil
	}
	color, ok := v.(string)
	if !ok || !hexColorRe.MatchString(color) {
		return "", &InvalidColorError{Color: fmt.Sprintf("%v", v)}
	}
	return color, nil
}

func validateStrokes(v any, cfg Config) ([]Stroke, error) {
	entries, ok := v.([]any)
	if !ok || len(entries) == 0 {
		return nil, &StrokeShapeMismatchError{Stroke: -1, Reason: "strokes must be a non-empty array"}
	}

	strokes := make([]Stroke, 0, len(entries))
	for i, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, &StrokeShapeMismatchError{Stroke: i, Reason: "stroke must be an object"}
		}

		stroke, err := validateStroke(i, fields, cfg)
		if err != nil {
			return nil, err
		}
		strokes = append(strokes, stroke)
	}
	return strokes, nil
}

func validateStroke(index int, fields map[string]any, cfg Config) (Stroke, error) {
	xs, err := numberArray(index, "x", fields["x"])
	if err != nil {
		return Stroke{}, err
	}
	ys, err := numberArray(index, "y", fields["y"])
	if err != nil {
		return Stroke{}, err
	}

	if len(xs) != len(ys) {
		return Stroke{}, &StrokeShapeMismatchError{
			Stroke: index,
			Reason: fmt.Sprintf("x has %d points but y has %d", len(xs), len(ys)),
		}
	}
	if len(xs) < minStrokePoints || len(xs) > cfg.MaxStrokePoints {
		return Stroke{}, &StrokeShapeMismatchError{
			Stroke: index,
			Reason: fmt.Sprintf("has %d points, expected %d to %d", len(xs), minStrokePoints, cfg.MaxStrokePoints),
		}
	}

	var speeds []int
	if raw, present := fields["t"]; present && raw != nil {
		ts, err := numberArray(index, "t", raw)
		if err != nil {
			return Stroke{}, err
		}
		if len(ts) != len(xs)-1 {
			return Stroke{}, &StrokeShapeMismatchError{
				Stroke: index,
				Reason: fmt.Sprintf("t has %d values, expected %d", len(ts), len(xs)-1),
			}
		}
		speeds = make([]int, len(ts))
		for j, t := range ts {
			speeds[j] = clampSpeed(int(t))
		}
	}

	points := make([]Point, len(xs))
	for j := range xs {
		points[j] = Point{X: cfg.Bounds.ClampX(xs[j]), Y: cfg.Bounds.ClampY(ys[j])}
	}

	expanded, err := Expand(points, speeds)
	if err != nil {
		return Stroke{}, err
	}

	return Stroke{
		Hint: StrokeHint{
			Points:      points,
			Speeds:      speeds,
			Description: truncateText(text(fields["description"]), cfg.MaxTextLength),
		},
		Expanded: expanded,
	}, nil
}

// numberArray coerces a JSON value into a float slice, rejecting anything
// that is not an array of numbers.
func numberArray(index int, name string, v any) ([]float64, error) {
	entries, ok := v.([]any)
	if !ok {
		return nil, &StrokeShapeMismatchError{
			Stroke: index,
			Reason: fmt.Sprintf("%s must be an array of numbers", name),
		}
	}
	out := make([]float64, len(entries))
	for i, entry := range entries {
		switch n := entry.(type) {
		case float64:
			out[i] = n
		case int:
			out[i] = float64(n)
		default:
			return nil, &StrokeShapeMismatchError{
				Stroke: index,
				Reason: fmt.Sprintf("%s[%d] is not a number", name, i),
			}
		}
	}
	return out, nil
}

// text coerces an optional free-text field; anything but a string reads as
// absent.
func text(v any) string {
	s, _ := v.(string)
	return s
}

func truncateText(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
