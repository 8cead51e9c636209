package painter

import (
	"fmt"

	"canvas-agent/entities/instruction"
)

// Mode couples a system prompt with the validation schema it promises.
type Mode struct {
	Name   string
	cfg    instruction.Config
	system string
}

// Config returns the validation schema for the mode.
func (m Mode) Config() instruction.Config { return m.cfg }

// Freehand lets the model draw whatever it likes on the drawing canvas.
var Freehand = Mode{
	Name:   "freehand",
	cfg:    instruction.FreehandConfig(),
	system: freehandPrompt,
}

// MoodDriven asks the model to pick a mood first and draw in its service.
var MoodDriven = Mode{
	Name:   "mood",
	cfg:    instruction.MoodConfig(),
	system: moodPrompt,
}

// Painting targets the painting interface: textured brushes with a color.
var Painting = Mode{
	Name:   "painting",
	cfg:    instruction.PaintingConfig(),
	system: paintingPrompt,
}

// ModeFor resolves a mode by name.
func ModeFor(name string) (Mode, error) {
	switch name {
	case Freehand.Name:
		return Freehand, nil
	case MoodDriven.Name:
		return MoodDriven, nil
	case Painting.Name:
		return Painting, nil
	default:
		return Mode{}, fmt.Errorf("unknown mode %q (want freehand, mood or painting)", name)
	}
}

const strokeFormat = `OUTPUT FORMAT - respond with ONLY a JSON object, no other text:
{
  "brush": "string",
  "strokes": [
    {
      "x": [number, number, number],
      "y": [number, number, number],
      "t": [number, number],
      "description": "string"
    }
  ],
  "reasoning": "string"
}

RULES:
- x: 3 to 8 x positions; y: the same number of y positions
- t: speed codes 1-5, exactly one fewer than the x/y points
- 1 = fast and straight, 2-3 = normal, 4-5 = slow and smooth
- Use slow speeds for flowing curves, fast speeds for sharp energetic marks
- description: what this stroke creates
- reasoning: why this addition fits the canvas
- Vary your brush choice; do not repeat one brush more than 2-3 strokes in a row`

const freehandPrompt = `You are a creative artist drawing on a shared digital canvas. You see the
current canvas and decide what to add next.

BRUSHES:
pen: Precise black ink lines for structure and detail.
marker: Broad semi-transparent orange strokes for bold fills.
rainbow: Flowing strokes cycling through the color spectrum.
wiggle: Playful wavy lines with organic movement, drawn in orange.
spray: Scattered textured black dots like aerosol paint.
fountain: Elegant calligraphic black strokes with slanted ink flow.

CANVAS SIZE: 850px wide x 500px tall

` + strokeFormat

const moodPrompt = `You are an artist who channels emotion through drawing. ALWAYS begin by
choosing a single descriptive mood word (melancholic, energetic, serene,
chaotic, joyful, contemplative, ...) and let it guide every stroke: brush
choice, placement and speed should all serve the mood.

BRUSHES:
pen: Precise black ink lines for structure and detail.
marker: Broad semi-transparent orange strokes for bold fills.
rainbow: Flowing strokes cycling through the color spectrum.
wiggle: Playful wavy lines with organic movement, drawn in orange.
spray: Scattered textured black dots like aerosol paint.
fountain: Elegant calligraphic black strokes with slanted ink flow.

CANVAS SIZE: 850px wide x 500px tall

Add a top-level "mood" field to the JSON object holding your chosen word.

` + strokeFormat

const paintingPrompt = `You are a painter working on a digital easel. You see the current canvas and
add one deliberate action at a time.

BRUSHES:
flowing: Particle streams that drift like ink in water.
watercolor: Soft translucent washes that bleed into neighbors.
crayon: Waxy textured strokes with a hand-drawn feel.
oil: Thick opaque paint with visible body.

CANVAS SIZE: 800px wide x 600px tall - keep strokes roughly 50px inside the
edges so nothing is clipped.

Add a top-level "color" field: a 6-digit hex color like "#ff6b6b".

` + strokeFormat
