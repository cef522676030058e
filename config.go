package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

const (
	defaultCompiler       = "tact"
	defaultWorkers        = 4
	defaultMaxSourceBytes = 64 << 10
	defaultBuildTimeout   = time.Minute
)

type tgConfig struct {
	Token          string   `json:"token"`            // Bot API token, BOT_TOKEN takes precedence.
	ListenAddr     string   `json:"listen_addr"`      // The report file server will listen on this TCP address, if set.
	StdlibDir      string   `json:"stdlib_dir"`       // Directory holding the compiler's standard library.
	Compiler       string   `json:"compiler"`         // Compiler binary.
	CompilerArgs   []string `json:"compiler_args"`    // Passed to the compiler before --config.
	Workers        int      `json:"workers"`          // Messages handled at the same time.
	MaxSourceBytes int      `json:"max_source_bytes"` // Larger uploads are refused.
	BuildTimeout   duration `json:"build_timeout"`    // For example "45s".
	Debug          bool     `json:"debug"`
}

// duration is a time.Duration read from a JSON string.
type duration time.Duration

func (d *duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

var errNoToken = errors.New("no bot token, set token or BOT_TOKEN")

// loadConfig decodes the configuration from r, which may be nil if there is
// no configuration file, and applies the environment and defaults.
func loadConfig(r io.Reader, getenv func(string) string) (*tgConfig, error) {
	var config tgConfig
	if r != nil {
		if err := json.NewDecoder(r).Decode(&config); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}
	if token := getenv("BOT_TOKEN"); token != "" {
		config.Token = token
	}
	if config.Token == "" {
		return nil, errNoToken
	}
	if config.StdlibDir == "" {
		config.StdlibDir = libPath("stdlib")
	}
	if config.Compiler == "" {
		config.Compiler = defaultCompiler
	}
	if config.Workers <= 0 {
		config.Workers = defaultWorkers
	}
	if config.MaxSourceBytes <= 0 {
		config.MaxSourceBytes = defaultMaxSourceBytes
	}
	if config.BuildTimeout <= 0 {
		config.BuildTimeout = duration(defaultBuildTimeout)
	}
	return &config, nil
}
