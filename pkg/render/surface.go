package render

import (
	"strings"
	"sync"
)

// Buffer is an in-memory Surface.
type Buffer struct {
	mu      sync.RWMutex
	content string
}

// Replace implements Surface.
func (b *Buffer) Replace(content string) {
	b.mu.Lock()
	b.content = content
	b.mu.Unlock()
}

// Content returns the current content of the buffer.
func (b *Buffer) Content() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content
}

// DefaultRetention is the number of lines a History keeps by default.
const DefaultRetention = 512

// History is an in-memory Log that retains the most recent lines in
// a ring buffer, so that a long session doesn't grow without bound.
type History struct {
	lines    []Line
	idx      int // next slot to write
	count    int // retained lines
	appended int // lines ever appended
	rows     int // viewport height
	top      int // first visible line, relative to the oldest retained line

	sync.RWMutex
}

// NewHistory creates a History retaining up to size lines, viewed
// through a viewport of rows lines. A non-positive size uses
// DefaultRetention, and a non-positive rows makes every line visible.
func NewHistory(size, rows int) *History {
	if size <= 0 {
		size = DefaultRetention
	}
	return &History{
		lines: make([]Line, size),
		rows:  rows,
	}
}

// Append implements Log.
func (h *History) Append(l Line) {
	h.Lock()
	defer h.Unlock()

	h.lines[h.idx] = l
	h.idx = (h.idx + 1) % len(h.lines)
	if h.count < len(h.lines) {
		h.count++
	} else if h.top > 0 {
		// the oldest line was evicted, keep the view anchored
		h.top--
	}
	h.appended++
}

// ScrollToEnd implements Log.
func (h *History) ScrollToEnd() {
	h.Lock()
	defer h.Unlock()

	h.top = 0
	if h.rows > 0 && h.count > h.rows {
		h.top = h.count - h.rows
	}
}

// Lines returns the retained lines, oldest first.
func (h *History) Lines() []Line {
	h.RLock()
	defer h.RUnlock()
	return h.slice(0, h.count)
}

// Visible returns the lines inside the viewport.
func (h *History) Visible() []Line {
	h.RLock()
	defer h.RUnlock()

	end := h.count
	if h.rows > 0 && h.top+h.rows < end {
		end = h.top + h.rows
	}
	return h.slice(h.top, end)
}

func (h *History) slice(from, to int) []Line {
	out := make([]Line, 0, to-from)
	oldest := (h.idx - h.count + len(h.lines)) % len(h.lines)
	for i := from; i < to; i++ {
		out = append(out, h.lines[(oldest+i)%len(h.lines)])
	}
	return out
}

// Len returns the number of retained lines.
func (h *History) Len() int {
	h.RLock()
	defer h.RUnlock()
	return h.count
}

// Appended returns the number of lines ever appended, including
// those that have since been evicted.
func (h *History) Appended() int {
	h.RLock()
	defer h.RUnlock()
	return h.appended
}

// Top returns the index of the first visible line.
func (h *History) Top() int {
	h.RLock()
	defer h.RUnlock()
	return h.top
}

// Content formats the retained lines with m, ending each with a
// line break.
func (h *History) Content(m Markup) string {
	var b strings.Builder
	for _, l := range h.Lines() {
		b.WriteString(m.Line(l))
		b.WriteString(m.Break())
	}
	return b.String()
}
