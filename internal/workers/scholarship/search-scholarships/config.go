// internal/workers/scholarship/search-scholarships/config.go
package searchscholarships

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}
