package devtools

const (
	defaultAddr         = "127.0.0.1:8765"
	defaultHistoryLimit = 100
)

// Config holds inspector and server parameters.
type Config struct {
	Addr         string `json:"addr,omitempty"`
	HistoryLimit int    `json:"history_limit,omitempty"`
}

// DefaultConfig returns a loopback server keeping the last 100 dispatches.
func DefaultConfig() Config {
	return Config{
		Addr:         defaultAddr,
		HistoryLimit: defaultHistoryLimit,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}
	if source.HistoryLimit > 0 {
		c.HistoryLimit = source.HistoryLimit
	}
}
