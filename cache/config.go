package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// AddressLength is the width of a simulated memory address in bits.
const AddressLength = 64

// MaxLines bounds the number of lines a single cache may allocate. At
// 24 bytes per Line the arena stays under 100 MiB.
const MaxLines = 1 << 22

// ErrInvalidConfig is returned when a cache geometry cannot be simulated.
var ErrInvalidConfig = errors.New("invalid cache configuration")

// Config holds the geometry of a set-associative cache.
type Config struct {
	// SetIndexBits (s) is the number of address bits that select a set.
	// The cache has 2^s sets.
	SetIndexBits int `json:"set_index_bits"`

	// LinesPerSet (E) is the associativity, the number of lines in each set.
	LinesPerSet int `json:"lines_per_set"`

	// BlockOffsetBits (b) is the number of address bits that select a byte
	// within a block. Blocks are 2^b bytes.
	BlockOffsetBits int `json:"block_offset_bits"`
}

// NumSets returns 2^s. It returns 0 when s is out of range.
func (c Config) NumSets() int {
	if c.SetIndexBits < 0 || c.SetIndexBits >= AddressLength-1 {
		return 0
	}
	return 1 << c.SetIndexBits
}

// BlockSize returns 2^b in bytes. It returns 0 when b is out of range.
func (c Config) BlockSize() uint64 {
	if c.BlockOffsetBits < 0 || c.BlockOffsetBits >= AddressLength {
		return 0
	}
	return 1 << uint(c.BlockOffsetBits)
}

// TotalLines returns the number of lines the cache holds.
func (c Config) TotalLines() int {
	return c.NumSets() * c.LinesPerSet
}

// Validate checks that the geometry can be simulated.
func (c Config) Validate() error {
	if c.SetIndexBits < 0 {
		return fmt.Errorf("%w: set_index_bits must be >= 0", ErrInvalidConfig)
	}
	if c.BlockOffsetBits < 0 {
		return fmt.Errorf("%w: block_offset_bits must be >= 0", ErrInvalidConfig)
	}
	if c.LinesPerSet < 1 {
		return fmt.Errorf("%w: lines_per_set must be > 0", ErrInvalidConfig)
	}
	if c.BlockOffsetBits >= AddressLength {
		return fmt.Errorf("%w: block_offset_bits must be < %d",
			ErrInvalidConfig, AddressLength)
	}
	if c.SetIndexBits+c.BlockOffsetBits > AddressLength {
		return fmt.Errorf("%w: set_index_bits + block_offset_bits must be <= %d",
			ErrInvalidConfig, AddressLength)
	}
	if c.SetIndexBits >= 31 ||
		uint64(c.NumSets())*uint64(c.LinesPerSet) > MaxLines {
		return fmt.Errorf("%w: 2^%d sets x %d lines exceeds %d lines",
			ErrInvalidConfig, c.SetIndexBits, c.LinesPerSet, MaxLines)
	}
	return nil
}

// String renders the geometry the way the command line spells it.
func (c Config) String() string {
	return fmt.Sprintf("s=%d E=%d b=%d",
		c.SetIndexBits, c.LinesPerSet, c.BlockOffsetBits)
}

// ConfigFile is a geometry read from a JSON file that may leave keys out.
// Absent keys stay nil.
type ConfigFile struct {
	SetIndexBits    *int `json:"set_index_bits,omitempty"`
	LinesPerSet     *int `json:"lines_per_set,omitempty"`
	BlockOffsetBits *int `json:"block_offset_bits,omitempty"`
}

// Apply overwrites the fields of config that f sets.
func (f ConfigFile) Apply(config *Config) {
	if f.SetIndexBits != nil {
		config.SetIndexBits = *f.SetIndexBits
	}
	if f.LinesPerSet != nil {
		config.LinesPerSet = *f.LinesPerSet
	}
	if f.BlockOffsetBits != nil {
		config.BlockOffsetBits = *f.BlockOffsetBits
	}
}

// LoadConfigFile loads a possibly partial geometry from a JSON file.
func LoadConfigFile(path string) (ConfigFile, error) {
	var file ConfigFile

	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("failed to read cache config file: %w", err)
	}

	if err := json.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("failed to parse cache config: %w", err)
	}

	return file, nil
}

// LoadConfig loads a Config from a JSON file. Absent keys are zero.
func LoadConfig(path string) (Config, error) {
	var config Config

	file, err := LoadConfigFile(path)
	if err != nil {
		return config, err
	}

	file.Apply(&config)

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache config file: %w", err)
	}

	return nil
}
