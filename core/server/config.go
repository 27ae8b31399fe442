package server

import "fmt"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Insecure allows serving without an ApiKey, leaving every route open.
	Insecure bool `mapstructure:"insecure" default:"false"`
	// ShutdownSeconds bounds graceful shutdown of in-flight requests.
	ShutdownSeconds int `mapstructure:"shutdown_seconds" default:"10"`
}

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	return ":" + c.Port
}

// Validate checks that the port is usable.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}
	var port int
	if _, err := fmt.Sscanf(c.Port, "%d", &port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port %q", c.Port)
	}
	return nil
}

// CheckAuth refuses an empty ApiKey unless Insecure is set.
func (c Config) CheckAuth() error {
	if c.ApiKey == "" && !c.Insecure {
		return fmt.Errorf("server api_key is empty; set SERVER_API_KEY or start with --insecure")
	}
	return nil
}
