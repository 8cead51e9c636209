package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	// CLI flags
	canvasPath := flag.String("canvas", "", "Path to the current canvas snapshot image")
	steps := flag.Int("steps", 1, "Number of drawing cycles to run")
	mode := flag.String("mode", "freehand", "Drawing mode: freehand, mood or painting")
	mood := flag.String("mood", "", "Mood to express (mood mode; empty lets the model choose)")
	directive := flag.String("d", "", "Directive for the painter (empty means autonomous)")
	apiKey := flag.String("key", "", "Anthropic API key (or set ANTHROPIC_API_KEY env)")
	model := flag.String("model", "claude-sonnet-4-5", "Model to use")
	outputDir := flag.String("output", "./output", "Output directory for session logs")
	attempts := flag.Int("attempts", 3, "Max validation attempts per cycle")
	historySize := flag.Int("history", 5, "Instructions kept as prompt context")
	keepGoing := flag.Bool("keep-going", false, "Continue the session when a cycle fails")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Canvas Agent - AI-powered canvas drawing

Usage:
  canvas-agent -canvas current_canvas.png [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  canvas-agent -canvas current_canvas.png -steps 10
  canvas-agent -canvas current_canvas.png -mode mood -mood serene
  canvas-agent -canvas current_canvas.png -mode painting -d "a sunset sky" -v

Environment:
  ANTHROPIC_API_KEY - API key for Claude (alternative to -key flag)
  A .env file in the working directory is loaded if present.

Output Structure:
  Each session is saved to its own subdirectory under the output directory:
    output/
      session_20250101_120000_ab12cd34/
        cycle_001.json
        cycle_002.json
        replay.jsonl
`)
	}

	flag.Parse()

	// Load .env before reading the environment
	_ = godotenv.Load()

	// Get API key
	key := *apiKey
	if key == "" {
		key = os.Getenv("ANTHROPIC_API_KEY")
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "Error: Anthropic API key required (-key or ANTHROPIC_API_KEY env)")
		os.Exit(1)
	}

	// Create config
	config := StudioConfig{
		Mode:           *mode,
		Model:          *model,
		AnthropicKey:   key,
		CanvasPath:     *canvasPath,
		OutputDir:      *outputDir,
		Steps:          *steps,
		Directive:      *directive,
		Mood:           *mood,
		MaxAttempts:    *attempts,
		HistorySize:    *historySize,
		SkipOnFailure:  *keepGoing,
		VerboseLogging: *verbose,
	}

	// Create studio
	studio, err := NewStudio(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating studio: %v\n", err)
		os.Exit(1)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted, shutting down...")
		cancel()
	}()

	// Draw!
	if err := studio.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error running session: %v\n", err)
		os.Exit(1)
	}
}
