// Package session persists drawing sessions as flat files: one JSON document
// per request cycle plus an append-only replay script consumed by the canvas
// front end.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"canvas-agent/entities/instruction"
)

// Recorder writes session artifacts under a per-session directory.
type Recorder struct {
	dir       string
	sessionID string
	cycles    int
}

// NewRecorder creates the session directory under outputDir.
func NewRecorder(outputDir string) (*Recorder, error) {
	sessionID := uuid.NewString()
	dir := filepath.Join(outputDir, "session_"+time.Now().Format("20060102_150405")+"_"+sessionID[:8])
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &Recorder{dir: dir, sessionID: sessionID}, nil
}

// Dir returns the session directory.
func (r *Recorder) Dir() string { return r.dir }

// SessionID returns the session identifier.
func (r *Recorder) SessionID() string { return r.sessionID }

// CycleLog captures everything about one request cycle for later analysis.
type CycleLog struct {
	Timestamp   time.Time
	Model       string
	Directive   string
	CanvasPath  string
	RawResponse string
	Attempts    int
	Accepted    bool
	Failure     string
	Instruction *instruction.Instruction
}

// cycleDoc is the on-disk shape of a CycleLog. The core types carry no JSON
// tags on purpose, so serialization stays at this boundary.
type cycleDoc struct {
	SessionID   string          `json:"session_id"`
	Cycle       int             `json:"cycle"`
	Timestamp   string          `json:"timestamp"`
	Model       string          `json:"model"`
	Directive   string          `json:"directive"`
	CanvasPath  string          `json:"canvas_path"`
	RawResponse string          `json:"raw_response"`
	Attempts    int             `json:"attempts"`
	Accepted    bool            `json:"accepted"`
	Failure     string          `json:"failure,omitempty"`
	Instruction *instructionDoc `json:"instruction,omitempty"`
}

type instructionDoc struct {
	Brush     string      `json:"brush"`
	Color     string      `json:"color,omitempty"`
	Mood      string      `json:"mood,omitempty"`
	Reasoning string      `json:"reasoning"`
	Strokes   []strokeDoc `json:"strokes"`
}

type strokeDoc struct {
	Description string      `json:"description"`
	X           []float64   `json:"x"`
	Y           []float64   `json:"y"`
	T           []int       `json:"t,omitempty"`
	Expanded    [][]float64 `json:"expanded"`
}

func encodeInstruction(ins *instruction.Instruction) *instructionDoc {
	if ins == nil {
		return nil
	}
	doc := &instructionDoc{
		Brush:     ins.Brush,
		Color:     ins.Color,
		Mood:      ins.Mood,
		Reasoning: ins.Reasoning,
	}
	for _, stroke := range ins.Strokes {
		sd := strokeDoc{
			Description: stroke.Hint.Description,
			T:           stroke.Hint.Speeds,
		}
		for _, p := range stroke.Hint.Points {
			sd.X = append(sd.X, p.X)
			sd.Y = append(sd.Y, p.Y)
		}
		for _, p := range stroke.Expanded {
			sd.Expanded = append(sd.Expanded, []float64{p.X, p.Y})
		}
		doc.Strokes = append(doc.Strokes, sd)
	}
	return doc
}

// Record writes one cycle document and returns its path.
func (r *Recorder) Record(log CycleLog) (string, error) {
	r.cycles++
	doc := cycleDoc{
		SessionID:   r.sessionID,
		Cycle:       r.cycles,
		Timestamp:   log.Timestamp.Format(time.RFC3339Nano),
		Model:       log.Model,
		Directive:   log.Directive,
		CanvasPath:  log.CanvasPath,
		RawResponse: log.RawResponse,
		Attempts:    log.Attempts,
		Accepted:    log.Accepted,
		Failure:     log.Failure,
		Instruction: encodeInstruction(log.Instruction),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode cycle log: %w", err)
	}

	path := filepath.Join(r.dir, fmt.Sprintf("cycle_%03d.json", r.cycles))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write cycle log: %w", err)
	}
	return path, nil
}

// replayCommand is one line of the replay script.
type replayCommand struct {
	Cmd         string      `json:"cmd"`
	Brush       string      `json:"brush,omitempty"`
	Color       string      `json:"color,omitempty"`
	Description string      `json:"description,omitempty"`
	Points      [][]float64 `json:"points,omitempty"`
}

// Replay translates a validated instruction into an ordered command list and
// appends it to the session's replay script. The whole instruction is
// serialized before anything is written, so a failure never leaves a partial
// instruction in the script.
func (r *Recorder) Replay(ctx context.Context, ins *instruction.Instruction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	commands := []replayCommand{{Cmd: "setBrush", Brush: ins.Brush}}
	if ins.Color != "" {
		commands = append(commands, replayCommand{Cmd: "setColor", Color: ins.Color})
	}
	for _, stroke := range ins.Strokes {
		cmd := replayCommand{Cmd: "stroke", Description: stroke.Hint.Description}
		for _, p := range stroke.Expanded {
			cmd.Points = append(cmd.Points, []float64{p.X, p.Y})
		}
		commands = append(commands, cmd)
	}

	var buf []byte
	for _, cmd := range commands {
		line, err := json.Marshal(cmd)
		if err != nil {
			return fmt.Errorf("failed to encode replay command: %w", err)
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}

	path := filepath.Join(r.dir, "replay.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open replay script: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(buf); err != nil {
		return fmt.Errorf("failed to append replay commands: %w", err)
	}
	return nil
}
