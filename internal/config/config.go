// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
)

// Options holds the configuration values for the client application.
type Options struct {
	// BaseURL is the API base URL, including the /api prefix.
	BaseURL string

	// Timeout is the request timeout in seconds.
	Timeout int

	// SessionFile is the path to the durable session file
	// (bearer token and current user).
	SessionFile string

	// LogLevel sets the logging verbosity ("debug" enables
	// request/response logging in the API client).
	LogLevel string

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.BaseURL, "a", "http://localhost:8080/api", "API base URL")
	flag.IntVar(&options.Timeout, "t", 10, "request timeout in seconds")
	flag.StringVar(&options.SessionFile, "s", "session.json", "path to the session file")
	flag.StringVar(&options.LogLevel, "l", "info", "log level")
	flag.StringVar(&options.Config, "config", "", "path to config file")
	flag.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if baseURL := os.Getenv("API_BASE_URL"); baseURL != "" {
		options.BaseURL = baseURL
	}
	if timeout := os.Getenv("API_TIMEOUT"); timeout != "" {
		if v, err := strconv.Atoi(timeout); err == nil {
			options.Timeout = v
		}
	}
	if sessionFile := os.Getenv("SESSION_FILE"); sessionFile != "" {
		options.SessionFile = sessionFile
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}

	return options
}
