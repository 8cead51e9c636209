package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"canvas-agent/entities/painter"
	"canvas-agent/tools/canvas"
	"canvas-agent/tools/llm"
	"canvas-agent/tools/logger"
	"canvas-agent/tools/session"
)

// Studio orchestrates the drawing loop: snapshot, request, replay, record.
type Studio struct {
	config   StudioConfig
	painter  *painter.Painter
	bridge   Bridge
	recorder *session.Recorder
	history  *painter.History
	log      *logger.Logger
}

// NewStudio creates a new drawing studio
func NewStudio(config StudioConfig) (*Studio, error) {
	// Set defaults
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.Mode == "" {
		config.Mode = painter.Freehand.Name
	}
	if config.Steps == 0 {
		config.Steps = 1
	}
	if config.HistorySize == 0 {
		config.HistorySize = 5
	}

	// Validate
	if config.AnthropicKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	mode, err := painter.ModeFor(config.Mode)
	if err != nil {
		return nil, err
	}

	// Create output directory
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// Initialize logger
	logLevel := logger.LevelInfo
	if config.VerboseLogging {
		logLevel = logger.LevelDebug
	}
	log := logger.New(os.Stdout, logLevel, "studio")

	// Initialize LLM client and painter
	client := llm.NewAnthropicClient(config.AnthropicKey, config.Model)
	paint := painter.New(client, mode, log)

	// Initialize session recorder; it doubles as the replay bridge
	recorder, err := session.NewRecorder(config.OutputDir)
	if err != nil {
		return nil, err
	}

	return &Studio{
		config:   config,
		painter:  paint,
		bridge:   recorder,
		recorder: recorder,
		history:  painter.NewHistory(config.HistorySize),
		log:      log,
	}, nil
}

// Run executes the configured number of drawing cycles.
func (s *Studio) Run(ctx context.Context) error {
	startTime := time.Now()
	s.log.Info("═══════════════════════════════════════════════════════════════")
	s.log.Info("Starting drawing session")
	s.log.Info("Mode: %s, Steps: %d", s.painter.Mode().Name, s.config.Steps)
	s.log.Info("Session dir: %s", s.recorder.Dir())
	s.log.Info("═══════════════════════════════════════════════════════════════")

	var failures int
	for step := 1; step <= s.config.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.log.Info("")
		s.log.Info("CYCLE %d/%d", step, s.config.Steps)
		s.log.Info("─────────────────────────────────────────────────────────────────")

		if err := s.runCycle(ctx); err != nil {
			failures++
			if !s.config.SkipOnFailure {
				return err
			}
			s.log.Warn("Skipping cycle %d: %v", step, err)
		}
	}

	s.log.Info("")
	s.log.Info("═══════════════════════════════════════════════════════════════")
	s.log.Info("Session complete: %d/%d cycles drawn", s.config.Steps-failures, s.config.Steps)
	s.log.Info("Total time: %v", time.Since(startTime).Round(time.Millisecond))
	s.log.Info("Session dir: %s", s.recorder.Dir())
	s.log.Info("═══════════════════════════════════════════════════════════════")
	return nil
}

// runCycle performs one snapshot → request → replay → record pass.
func (s *Studio) runCycle(ctx context.Context) error {
	var snap *canvas.Snapshot
	if s.config.CanvasPath != "" {
		loaded, err := canvas.Load(s.config.CanvasPath)
		if err != nil {
			return err
		}
		snap = loaded
	}

	req := painter.Request{
		Snapshot:    snap,
		Directive:   s.config.Directive,
		Mood:        s.config.Mood,
		History:     s.history,
		MaxAttempts: s.config.MaxAttempts,
	}

	res, err := s.painter.RequestInstruction(ctx, req)
	if err != nil {
		// Surface the last concrete reason, not a generic failure
		var exhausted *painter.ExhaustedRetriesError
		if errors.As(err, &exhausted) {
			s.log.Error("Cycle failed after %d attempts: %v", exhausted.Attempts, exhausted.Err)
			s.recordCycle(session.CycleLog{
				Timestamp:  time.Now(),
				Model:      s.config.Model,
				Directive:  s.config.Directive,
				CanvasPath: s.config.CanvasPath,
				Attempts:   exhausted.Attempts,
				Failure:    exhausted.Err.Error(),
			})
		}
		return err
	}

	ins := res.Instruction
	s.log.Instruction(ins.Brush, ins.Mood, len(ins.Strokes))

	if err := s.bridge.Replay(ctx, ins); err != nil {
		s.log.Replay(false, "", err)
		return fmt.Errorf("replay failed: %w", err)
	}
	s.log.Replay(true, s.recorder.Dir(), nil)

	s.recordCycle(session.CycleLog{
		Timestamp:   time.Now(),
		Model:       s.config.Model,
		Directive:   s.config.Directive,
		CanvasPath:  s.config.CanvasPath,
		RawResponse: res.RawResponse,
		Attempts:    res.Attempts,
		Accepted:    true,
		Instruction: ins,
	})

	s.history.Push(ins)
	return nil
}

func (s *Studio) recordCycle(log session.CycleLog) {
	if _, err := s.recorder.Record(log); err != nil {
		s.log.Warn("Failed to write cycle log: %v", err)
	}
}
