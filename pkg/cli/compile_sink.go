package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/stardust-engine/shaderbuild/pkg/shader"
)

// consoleSink prints compiler output as "(n) [shader] line". Workers call it
// concurrently; the counter and the writer are shared.
type consoleSink struct {
	mu    sync.Mutex
	out   io.Writer
	count int
}

func newConsoleSink(out io.Writer) *consoleSink {
	return &consoleSink{out: out}
}

// Line implements shader.LineSink.
func (s *consoleSink) Line(sh shader.ShaderFile, _ shader.Stream, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	fmt.Fprintf(s.out, "(%d) [%s] %s\n", s.count, sh.Name, text)
}

// Count returns the number of lines printed so far.
func (s *consoleSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
