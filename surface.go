package gotween

import "sync"

// Update is one frame of display output for a named target.
type Update struct {
	// Target names the display slot, e.g. "api-calls".
	Target string `json:"target"`

	// Text is the formatted value to display.
	Text string `json:"text"`

	// Offset is the vertical offset for the decorative roll variant, zero
	// otherwise.
	Offset float64 `json:"offset,omitempty"`

	// Progress is the linear progress of the driving tween.
	Progress float64 `json:"progress"`

	// Final marks the last frame of the driving tween.
	Final bool `json:"final,omitempty"`
}

// Surface receives display updates. Implementations decide where the text
// ends up: an in-memory buffer, a terminal, a browser feed.
type Surface interface {
	WriteUpdate(Update) error
	Close() error
}

// TextSurface retains the most recent update per target. It is safe for
// concurrent use.
type TextSurface struct {
	mu   sync.Mutex
	last map[string]Update
}

// NewTextSurface returns an empty in-memory surface.
func NewTextSurface() *TextSurface {
	return &TextSurface{last: make(map[string]Update)}
}

func (s *TextSurface) WriteUpdate(u Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[u.Target] = u
	return nil
}

func (s *TextSurface) Close() error {
	return nil
}

// Value returns the last text written for target.
func (s *TextSurface) Value(target string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.last[target]
	return u.Text, ok
}

// Last returns the last full update written for target.
func (s *TextSurface) Last(target string) (Update, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.last[target]
	return u, ok
}
