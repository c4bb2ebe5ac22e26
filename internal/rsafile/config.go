package rsafile

import "github.com/user/rsafile/internal/codec"

// DefaultMaxUnits bounds the number of bytes or ciphertext units held in memory.
const DefaultMaxUnits = 1 << 24

type Config struct {
	Separator    string `json:"separator"`
	MaxUnits     int    `json:"max_units"`
	Seed         int64  `json:"seed"`
	ShowProgress bool   `json:"show_progress"`
	Verbose      bool   `json:"verbose"`
}

func DefaultConfig() Config {
	return Config{
		Separator: codec.DefaultSeparator,
		MaxUnits:  DefaultMaxUnits,
	}
}

func (c Config) maxUnits() int {
	if c.MaxUnits <= 0 {
		return DefaultMaxUnits
	}
	return c.MaxUnits
}
