// Package imem provides the instruction-memory backing store for the
// timing engine: a fixed table of 32-bit instruction words addressed by
// word index, populated before the first cycle and immutable thereafter.
package imem

// Memory is a word-indexed instruction ROM.
type Memory struct {
	words []uint32
}

// NewMemory creates an instruction memory holding a copy of the given
// program words.
func NewMemory(words []uint32) *Memory {
	m := &Memory{words: make([]uint32, len(words))}
	copy(m.words, words)
	return m
}

// Fetch returns the instruction word at the given word index.
// The second return value is false when the index is past the end of the
// program, which the fetch unit treats as end-of-program.
func (m *Memory) Fetch(index uint32) (uint32, bool) {
	if index >= uint32(len(m.words)) {
		return 0, false
	}
	return m.words[index], true
}

// Size returns the number of instruction words.
func (m *Memory) Size() int {
	return len(m.words)
}
