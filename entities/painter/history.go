package painter

import (
	"fmt"
	"strings"

	"canvas-agent/entities/instruction"
)

// Entry summarizes one accepted instruction for prompt context.
type Entry struct {
	Brush     string
	Mood      string
	Reasoning string
	Strokes   int
}

// History is a bounded, caller-owned buffer of recent instructions. It is
// passed explicitly into each request; the painter never keeps its own copy.
type History struct {
	limit   int
	entries []Entry
}

// NewHistory creates a history retaining the last limit instructions.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{limit: limit}
}

// Push records an accepted instruction, evicting the oldest entry when full.
func (h *History) Push(ins *instruction.Instruction) {
	h.entries = append(h.entries, Entry{
		Brush:     ins.Brush,
		Mood:      ins.Mood,
		Reasoning: ins.Reasoning,
		Strokes:   len(ins.Strokes),
	})
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Len returns the number of retained entries.
func (h *History) Len() int { return len(h.entries) }

// RecentBrushes lists brushes of retained entries, oldest first.
func (h *History) RecentBrushes() []string {
	brushes := make([]string, len(h.entries))
	for i, e := range h.entries {
		brushes[i] = e.Brush
	}
	return brushes
}

// Context renders the history as prompt text: what was drawn recently plus a
// variety nudge when one brush dominates.
func (h *History) Context() string {
	if len(h.entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nRECENT ACTIONS:\n")
	for i, e := range h.entries {
		fmt.Fprintf(&b, "%d. brush=%s", i+1, e.Brush)
		if e.Mood != "" {
			fmt.Fprintf(&b, ", mood=%s", e.Mood)
		}
		fmt.Fprintf(&b, ", %d stroke(s)", e.Strokes)
		if e.Reasoning != "" {
			fmt.Fprintf(&b, ": %s", e.Reasoning)
		}
		b.WriteString("\n")
	}

	if hint := h.varietyHint(); hint != "" {
		b.WriteString(hint)
	}
	return b.String()
}

// varietyHint nudges the model away from a brush used 3+ times recently.
func (h *History) varietyHint() string {
	counts := make(map[string]int)
	mostUsed, best := "", 0
	for _, e := range h.entries {
		counts[e.Brush]++
		if counts[e.Brush] > best {
			mostUsed, best = e.Brush, counts[e.Brush]
		}
	}
	if best < 3 {
		return ""
	}
	return fmt.Sprintf("You have used the %q brush %d times recently - pick a different brush this time.\n", mostUsed, best)
}
