package main

import (
	"context"

	"canvas-agent/entities/instruction"
)

// StudioConfig holds configuration for the drawing studio.
type StudioConfig struct {
	Mode           string // freehand, mood or painting
	Model          string
	AnthropicKey   string
	CanvasPath     string // snapshot image captured by the canvas front end
	OutputDir      string
	Steps          int
	Directive      string // user question; empty means autonomous drawing
	Mood           string // mood mode only; empty lets the model choose
	MaxAttempts    int
	HistorySize    int
	SkipOnFailure  bool // keep drawing after an exhausted cycle
	VerboseLogging bool
}

// Bridge replays validated instructions against a live canvas. Every
// instruction handed to it has passed validation: coordinates in bounds,
// fields well-typed, all-or-nothing.
type Bridge interface {
	Replay(ctx context.Context, ins *instruction.Instruction) error
}
