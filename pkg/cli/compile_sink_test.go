//go:build !integration

package cli

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stardust-engine/shaderbuild/pkg/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleSinkFormat(t *testing.T) {
	var buf bytes.Buffer
	sink := newConsoleSink(&buf)
	sh := shader.ShaderFile{Dir: "Resources/Shaders", Name: "sky.frag", Stage: shader.StageFragment}

	sink.Line(sh, shader.Stdout, "Resources/Shaders/sky.frag")
	sink.Line(sh, shader.Stderr, "warning: unused variable")

	assert.Equal(t, "(1) [sky.frag] Resources/Shaders/sky.frag\n(2) [sky.frag] warning: unused variable\n", buf.String())
	assert.Equal(t, 2, sink.Count())
}

func TestConsoleSinkConcurrentLinesStayWhole(t *testing.T) {
	var buf bytes.Buffer
	sink := newConsoleSink(&buf)

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sh := shader.ShaderFile{Name: fmt.Sprintf("s%d.comp", w)}
			for i := range perWriter {
				sink.Line(sh, shader.Stdout, fmt.Sprintf("line %d", i))
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, writers*perWriter)
	for i, line := range lines {
		assert.True(t, strings.HasPrefix(line, fmt.Sprintf("(%d) [s", i+1)), "line %d out of sequence: %q", i, line)
	}
}
