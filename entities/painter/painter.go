// Package painter runs the request/validate/retry cycle that turns a canvas
// snapshot into one validated drawing instruction.
package painter

import (
	"context"
	"fmt"
	"time"

	"canvas-agent/entities/instruction"
	"canvas-agent/tools/canvas"
	"canvas-agent/tools/llm"
	"canvas-agent/tools/logger"
)

const (
	defaultMaxAttempts = 3
	modelRetries       = 3 // transient-failure retries inside the llm client
	defaultMaxTokens   = 5000
)

// ExhaustedRetriesError is the terminal failure of a request cycle: every
// attempt produced an unparsable or invalid instruction. The last concrete
// reason is attached so an operator can diagnose prompt drift.
type ExhaustedRetriesError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("no valid instruction after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedRetriesError) Unwrap() error { return e.Err }

// Request carries the context for one instruction cycle. History is owned by
// the caller and only read here.
type Request struct {
	Snapshot    *canvas.Snapshot
	Directive   string // user question or autonomous directive
	Mood        string // mood-driven mode only; empty means model's choice
	History     *History
	MaxAttempts int
}

// Result is an accepted instruction plus the cycle's bookkeeping.
type Result struct {
	Instruction *instruction.Instruction
	RawResponse string
	Attempts    int
	Duration    time.Duration
}

// Painter requests drawing instructions from the model.
type Painter struct {
	client llm.Client
	mode   Mode
	log    *logger.Logger
}

// New creates a painter for the given mode.
func New(client llm.Client, mode Mode, log *logger.Logger) *Painter {
	if log == nil {
		log = logger.Default()
	}
	return &Painter{
		client: client,
		mode:   mode,
		log:    log.WithPrefix("painter"),
	}
}

// Mode returns the painter's mode.
func (p *Painter) Mode() Mode { return p.mode }

// Request cycle states.
type cycleState int

const (
	stateDrafting cycleState = iota
	stateAwaitingModel
	stateParsing
	stateValidating
	stateRetry
	stateAccepted
	stateFailed
)

// RequestInstruction runs one full cycle: draft a prompt, await the model,
// parse its text, validate the candidate. Parse and validation failures
// re-enter drafting with a corrective message naming the exact violation,
// up to MaxAttempts; transient model failures are retried with backoff
// inside the llm client and escalate as-is when that bound is exhausted.
func (p *Painter) RequestInstruction(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	maxAttempts := req.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	messages := p.draft(req)
	opts := &llm.RequestOptions{MaxTokens: defaultMaxTokens}

	var (
		attempt   int
		raw       string
		candidate map[string]any
		lastErr   error
		accepted  *instruction.Instruction
	)

	state := stateDrafting
	for {
		switch state {
		case stateDrafting:
			attempt++
			if lastErr != nil {
				// Carry the previous output and the concrete violation
				// into the conversation
				messages = append(messages,
					llm.Message{Role: "assistant", Content: raw},
					llm.Message{Role: "user", Content: correctivePrompt(lastErr)},
				)
			}
			state = stateAwaitingModel

		case stateAwaitingModel:
			resp, err := p.client.CompleteWithRetry(ctx, p.mode.system, messages, modelRetries, opts)
			if err != nil {
				return nil, err
			}
			p.log.Tokens(resp.InputTokens, resp.OutputTokens)
			raw = resp.Content
			state = stateParsing

		case stateParsing:
			obj, err := ExtractObject(raw)
			if err != nil {
				lastErr = err
				p.log.Attempt(attempt, maxAttempts, err)
				state = stateRetry
				break
			}
			candidate = obj
			state = stateValidating

		case stateValidating:
			ins, err := instruction.Validate(candidate, p.mode.cfg)
			p.log.Attempt(attempt, maxAttempts, err)
			if err != nil {
				lastErr = err
				state = stateRetry
				break
			}
			accepted = ins
			state = stateAccepted

		case stateRetry:
			if attempt >= maxAttempts {
				state = stateFailed
				break
			}
			state = stateDrafting

		case stateAccepted:
			return &Result{
				Instruction: accepted,
				RawResponse: raw,
				Attempts:    attempt,
				Duration:    time.Since(start),
			}, nil

		case stateFailed:
			return nil, &ExhaustedRetriesError{Attempts: attempt, Err: lastErr}
		}
	}
}

// draft builds the opening user message: snapshot image, directive, history.
func (p *Painter) draft(req Request) []llm.Message {
	directive := req.Directive
	if directive == "" {
		directive = "Look at the current canvas and decide what you'd like to draw next."
	}

	text := directive
	if req.Mood != "" {
		text += fmt.Sprintf("\n\nExpress the mood %q through your drawing.", req.Mood)
	}
	if req.History != nil {
		text += req.History.Context()
	}
	text += "\n\nOutput your drawing instruction in the required JSON format."

	msg := llm.Message{Role: "user", Content: text}
	if req.Snapshot != nil {
		msg.Image = &llm.Image{
			MediaType: req.Snapshot.MediaType,
			Data:      req.Snapshot.Data,
		}
	}
	return []llm.Message{msg}
}

func correctivePrompt(err error) string {
	return fmt.Sprintf("Your previous instruction was rejected: %v.\n\n"+
		"Respond again with ONLY a single JSON object following the required "+
		"format exactly. Do not add any field that is not in the format.", err)
}
