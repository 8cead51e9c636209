package instruction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawStroke(xs, ys []float64, ts []int) map[string]any {
	stroke := map[string]any{
		"x":           floatsToAny(xs),
		"y":           floatsToAny(ys),
		"description": "test stroke",
	}
	if ts != nil {
		vals := make([]any, len(ts))
		for i, t := range ts {
			vals[i] = float64(t)
		}
		stroke["t"] = vals
	}
	return stroke
}

func floatsToAny(vals []float64) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func validRaw() map[string]any {
	return map[string]any{
		"brush": "rainbow",
		"strokes": []any{
			rawStroke([]float64{100, 200, 300}, []float64{100, 150, 100}, []int{3, 4}),
		},
		"reasoning": "a rainbow arc",
	}
}

func TestValidateAccepted(t *testing.T) {
	ins, err := Validate(validRaw(), FreehandConfig())
	require.NoError(t, err)

	require.Len(t, ins.Strokes, 1)
	stroke := ins.Strokes[0]
	assert.Equal(t, "rainbow", ins.Brush)
	assert.Equal(t, "a rainbow arc", ins.Reasoning)
	assert.Equal(t, []int{3, 4}, stroke.Hint.Speeds)

	// Sparse hint retained, expanded path denser: 3 + (3-1) + (4-1).
	assert.Len(t, stroke.Hint.Points, 3)
	assert.Len(t, stroke.Expanded, 8)
	assert.Equal(t, stroke.Hint.Points[0], stroke.Expanded[0])
	assert.Equal(t, stroke.Hint.Points[2], stroke.Expanded[len(stroke.Expanded)-1])
}

func TestValidateUnknownField(t *testing.T) {
	raw := validRaw()
	raw["trees"] = []any{"oak"}

	_, err := Validate(raw, FreehandConfig())
	var unknownErr *UnknownFieldError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, []string{"trees"}, unknownErr.Fields)
}

func TestValidateMoodFieldGating(t *testing.T) {
	raw := validRaw()
	raw["mood"] = "serene"

	// Rejected in freehand mode, accepted when the config allows it.
	_, err := Validate(raw, FreehandConfig())
	var unknownErr *UnknownFieldError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, []string{"mood"}, unknownErr.Fields)

	ins, err := Validate(raw, MoodConfig())
	require.NoError(t, err)
	assert.Equal(t, "serene", ins.Mood)
}

func TestValidateBrush(t *testing.T) {
	var brushErr *InvalidBrushError

	raw := validRaw()
	raw["brush"] = "watercolor" // painting brush, not freehand
	_, err := Validate(raw, FreehandConfig())
	require.ErrorAs(t, err, &brushErr)
	assert.Equal(t, "watercolor", brushErr.Brush)

	delete(raw, "brush")
	_, err = Validate(raw, FreehandConfig())
	require.ErrorAs(t, err, &brushErr)

	raw["brush"] = []any{"pen"}
	_, err = Validate(raw, FreehandConfig())
	require.ErrorAs(t, err, &brushErr)
}

func TestValidateColor(t *testing.T) {
	cfg := PaintingConfig()
	var colorErr *InvalidColorError

	raw := validRaw()
	raw["brush"] = "watercolor"

	_, err := Validate(raw, cfg)
	require.ErrorAs(t, err, &colorErr)
	assert.True(t, colorErr.Missing)

	raw["color"] = "ff0000" // missing '#'
	_, err = Validate(raw, cfg)
	require.ErrorAs(t, err, &colorErr)
	assert.False(t, colorErr.Missing)

	raw["color"] = "#FF8800"
	ins, err := Validate(raw, cfg)
	require.NoError(t, err)
	assert.Equal(t, "#FF8800", ins.Color)

	// Optional color is still pattern-checked when present.
	raw = validRaw()
	raw["color"] = "red"
	_, err = Validate(raw, FreehandConfig())
	require.ErrorAs(t, err, &colorErr)
}

func TestValidateStrokeShapes(t *testing.T) {
	tests := []struct {
		name   string
		stroke map[string]any
	}{
		{"x/y length mismatch", rawStroke([]float64{1, 2, 3}, []float64{1, 2}, nil)},
		{"too few points", rawStroke([]float64{1, 2}, []float64{1, 2}, nil)},
		{"too many points", rawStroke(make([]float64, 9), make([]float64, 9), nil)},
		{"timing length mismatch", rawStroke([]float64{1, 2, 3}, []float64{1, 2, 3}, []int{1})},
		{"x not an array", map[string]any{"x": "wide", "y": floatsToAny([]float64{1, 2, 3})}},
		{"non-numeric entry", map[string]any{
			"x": []any{1.0, "two", 3.0},
			"y": floatsToAny([]float64{1, 2, 3}),
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := validRaw()
			raw["strokes"] = []any{tc.stroke}

			_, err := Validate(raw, FreehandConfig())
			var shapeErr *StrokeShapeMismatchError
			require.ErrorAs(t, err, &shapeErr)
			assert.Equal(t, 0, shapeErr.Stroke)
		})
	}
}

func TestValidateEmptyStrokes(t *testing.T) {
	var shapeErr *StrokeShapeMismatchError

	raw := validRaw()
	raw["strokes"] = []any{}
	_, err := Validate(raw, FreehandConfig())
	require.ErrorAs(t, err, &shapeErr)

	delete(raw, "strokes")
	_, err = Validate(raw, FreehandConfig())
	require.ErrorAs(t, err, &shapeErr)
}

func TestValidateReportsOffendingStroke(t *testing.T) {
	raw := validRaw()
	raw["strokes"] = []any{
		rawStroke([]float64{1, 2, 3}, []float64{1, 2, 3}, nil),
		rawStroke([]float64{1, 2, 3, 4}, []float64{1, 2, 3}, nil),
	}

	_, err := Validate(raw, FreehandConfig())
	var shapeErr *StrokeShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 1, shapeErr.Stroke)
}

func TestValidateClampsCoordinates(t *testing.T) {
	raw := validRaw()
	raw["strokes"] = []any{
		rawStroke([]float64{-50, 400, 9000}, []float64{250, -1, 600}, nil),
	}

	ins, err := Validate(raw, FreehandConfig())
	require.NoError(t, err)

	pts := ins.Strokes[0].Hint.Points
	assert.Equal(t, []Point{{X: 0, Y: 250}, {X: 400, Y: 0}, {X: 850, Y: 500}}, pts)
}

func TestValidateTruncatesText(t *testing.T) {
	raw := validRaw()
	raw["reasoning"] = strings.Repeat("r", 500)
	raw["strokes"].([]any)[0].(map[string]any)["description"] = strings.Repeat("d", 500)

	ins, err := Validate(raw, FreehandConfig())
	require.NoError(t, err)
	assert.Len(t, ins.Reasoning, 100)
	assert.Len(t, ins.Strokes[0].Hint.Description, 100)
}

func TestValidateFailFastOrder(t *testing.T) {
	// Both an unknown field and a bad brush: the whitelist check wins.
	raw := map[string]any{
		"brush":     "watercolor",
		"trees":     []any{},
		"reasoning": "x",
	}

	_, err := Validate(raw, FreehandConfig())
	var unknownErr *UnknownFieldError
	require.ErrorAs(t, err, &unknownErr)
}
