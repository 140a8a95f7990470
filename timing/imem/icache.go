package imem

import (
	"encoding/binary"
	"fmt"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds I-cache configuration parameters.
type Config struct {
	// Size in bytes
	Size int
	// Associativity (number of ways)
	Associativity int
	// BlockSize in bytes (cache line size)
	BlockSize int
	// HitLatency in cycles
	HitLatency uint64
	// MissLatency in cycles (includes the ROM lookup time)
	MissLatency uint64
}

// DefaultICacheConfig returns a small L1I configuration sized for the
// instruction ROMs this engine runs: 1KB, 2-way, 16B lines.
func DefaultICacheConfig() Config {
	return Config{
		Size:          1024,
		Associativity: 2,
		BlockSize:     16,
		HitLatency:    1,
		MissLatency:   3,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.BlockSize < 4 || c.BlockSize%4 != 0 {
		return fmt.Errorf("block size %d must be a positive multiple of 4", c.BlockSize)
	}
	if c.Associativity < 1 {
		return fmt.Errorf("associativity %d must be at least 1", c.Associativity)
	}
	waySize := c.Associativity * c.BlockSize
	if c.Size < waySize || c.Size%waySize != 0 {
		return fmt.Errorf("size %d must be a positive multiple of %d", c.Size, waySize)
	}
	if c.HitLatency < 1 || c.MissLatency < 1 {
		return fmt.Errorf("hit and miss latencies must be at least 1 cycle")
	}
	return nil
}

// AccessResult contains the result of an I-cache access.
type AccessResult struct {
	// Hit indicates whether the access was a cache hit.
	Hit bool
	// Latency is the number of cycles this access takes.
	Latency uint64
	// Word is the instruction word read.
	Word uint32
}

// Statistics holds I-cache performance statistics.
type Statistics struct {
	Reads  uint64
	Hits   uint64
	Misses uint64
}

// ICache is an instruction-cache timing model in front of the ROM, built
// on Akita cache components. The ROM is immutable, so the cache is
// read-only: no dirty state, no writebacks, fills straight from the ROM.
type ICache struct {
	config    Config
	directory *akitacache.DirectoryImpl
	dataStore [][]byte
	rom       *Memory
	stats     Statistics
}

// NewICache creates an I-cache over the given instruction ROM.
func NewICache(config Config, rom *Memory) *ICache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &ICache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		rom:       rom,
	}
}

// Config returns the cache configuration.
func (c *ICache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *ICache) Stats() Statistics {
	return c.stats
}

// blockIndex computes the index into dataStore for a block.
func (c *ICache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

// Fetch reads the instruction word at the given word index through the
// cache. The boolean result is false past the end of the ROM; such
// accesses bypass the cache entirely.
func (c *ICache) Fetch(index uint32) (AccessResult, bool) {
	word, ok := c.rom.Fetch(index)
	if !ok {
		return AccessResult{}, false
	}

	c.stats.Reads++
	addr := uint64(index) * 4
	blockAddr := (addr / uint64(c.config.BlockSize)) * uint64(c.config.BlockSize)

	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		offset := addr % uint64(c.config.BlockSize)
		blockData := c.dataStore[c.blockIndex(block)]
		return AccessResult{
			Hit:     true,
			Latency: c.config.HitLatency,
			Word:    binary.LittleEndian.Uint32(blockData[offset:]),
		}, true
	}

	c.stats.Misses++
	c.fill(blockAddr)
	return AccessResult{
		Hit:     false,
		Latency: c.config.MissLatency,
		Word:    word,
	}, true
}

// fill loads the block containing blockAddr from the ROM into the cache.
// The victim block needs no writeback because the cache is read-only.
func (c *ICache) fill(blockAddr uint64) {
	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return
	}

	blockData := c.dataStore[c.blockIndex(victim)]
	for i := 0; i < c.config.BlockSize; i += 4 {
		wordIndex := uint32((blockAddr + uint64(i)) / 4)
		word, ok := c.rom.Fetch(wordIndex)
		if !ok {
			word = 0
		}
		binary.LittleEndian.PutUint32(blockData[i:], word)
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)
}
