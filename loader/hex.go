// Package loader provides program-image loading for the simulator.
//
// A program image is a text file with one 32-bit instruction word per
// line, written in hexadecimal. Blank lines and comments (# or //) are
// ignored. The resulting word table is the instruction memory, addressed
// by word index.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Program represents a loaded program image.
type Program struct {
	// Words contains the instruction words in program order.
	Words []uint32
}

// Load reads a program image from the given path.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program image: %w", err)
	}
	defer f.Close()

	prog, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return prog, nil
}

// Parse reads a program image from the given reader.
func Parse(r io.Reader) (*Program, error) {
	prog := &Program{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		line = strings.TrimPrefix(line, "0x")
		word, err := strconv.ParseUint(line, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid instruction word %q", lineNo, line)
		}
		prog.Words = append(prog.Words, uint32(word))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program image: %w", err)
	}
	if len(prog.Words) == 0 {
		return nil, fmt.Errorf("program image contains no instructions")
	}

	return prog, nil
}
