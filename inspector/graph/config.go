package graph

// DefaultMaxRelease is the highest multi-release layer honored by default
const DefaultMaxRelease = 25

// Config represents loader settings shared by inspectors
type Config struct {
	MaxRelease int  // versioned layers above this release are skipped
	NestedJars bool // load *.jar entries as additional classpath records
	Resources  bool // record non-class entries
	CacheSize  int  // parsed class cache size, 0 disables the cache
	Workers    int  // parallel archive loads
}

// DefaultConfig returns default loader settings
func DefaultConfig() *Config {
	return &Config{
		MaxRelease: DefaultMaxRelease,
		NestedJars: true,
		Resources:  true,
		CacheSize:  4096,
		Workers:    4,
	}
}

// Init fills zero values with defaults
func (c *Config) Init() {
	if c.MaxRelease < BaseRelease {
		c.MaxRelease = DefaultMaxRelease
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.CacheSize < 0 {
		c.CacheSize = 0
	}
}
