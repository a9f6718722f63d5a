package config

import (
	"os"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr             string
	StorePath        string
	DirectoryBaseURL string
	DirectoryTimeout time.Duration
}

// DefaultDirectoryTimeout bounds every outbound directory call.
var DefaultDirectoryTimeout = 5 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CAPFINDER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	storePath := os.Getenv("CAPFINDER_STORE")
	if storePath == "" {
		storePath = "country-capital.json"
	}

	baseURL := os.Getenv("CAPFINDER_DIRECTORY_URL")
	if baseURL == "" {
		baseURL = "https://restcountries.com/v3.1"
	}

	timeout := DefaultDirectoryTimeout
	if raw := os.Getenv("CAPFINDER_DIRECTORY_TIMEOUT"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil {
			timeout = duration
		}
	}

	return Server{
		Addr:             addr,
		StorePath:        storePath,
		DirectoryBaseURL: baseURL,
		DirectoryTimeout: timeout,
	}
}
