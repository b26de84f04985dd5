// internal/workers/scholarship/store-scholarship/config.go
package storescholarship

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
