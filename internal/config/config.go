package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Wait session defaults. Flags and API payloads override these.
	Candidates   []string      // candidate endpoint URLs, priority order
	Timeout      time.Duration // total wait deadline
	PollInterval time.Duration // cadence between rounds
	ProbeTimeout time.Duration // per-request timeout
	Signature    string        // optional expected content signature
	WebhookURL   string        // optional ready/timeout notification target

	// Serve mode.
	Addr        string   // API bind address, e.g. "127.0.0.1:8421"
	LogDir      string   // logs directory
	APIKeys     []string // optional; empty means no auth (local dev)
	MaxInflight int      // concurrent wait sessions the API accepts
}

func FromEnv() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "127.0.0.1:8421"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	var candidates []string
	if v := os.Getenv("CANDIDATES"); v != "" {
		candidates = splitList(v)
	}

	var keys []string
	if v := os.Getenv("API_KEYS"); v != "" {
		keys = splitList(v)
	}

	timeout := 120 * time.Second
	if v := os.Getenv("WAIT_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			timeout = time.Duration(ms) * time.Millisecond
		}
	}

	pollInterval := 1 * time.Second
	if v := os.Getenv("POLL_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			pollInterval = time.Duration(ms) * time.Millisecond
		}
	}

	probeTimeout := 3 * time.Second
	if v := os.Getenv("PROBE_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			probeTimeout = time.Duration(ms) * time.Millisecond
		}
	}

	maxInflight := 8
	if v := os.Getenv("MAX_INFLIGHT_WAITS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxInflight = n
		}
	}

	return Config{
		Candidates:   candidates,
		Timeout:      timeout,
		PollInterval: pollInterval,
		ProbeTimeout: probeTimeout,
		Signature:    os.Getenv("SIGNATURE"),
		WebhookURL:   os.Getenv("WEBHOOK_URL"),
		Addr:         addr,
		LogDir:       logDir,
		APIKeys:      keys,
		MaxInflight:  maxInflight,
	}
}

// fileConfig mirrors Config in readywait.yaml. Pointers distinguish "absent"
// from zero so a file only overrides the keys it actually sets.
type fileConfig struct {
	Candidates     []string `yaml:"candidates"`
	TimeoutMS      *int     `yaml:"timeout_ms"`
	PollIntervalMS *int     `yaml:"poll_interval_ms"`
	ProbeTimeoutMS *int     `yaml:"probe_timeout_ms"`
	Signature      *string  `yaml:"signature"`
	WebhookURL     *string  `yaml:"webhook_url"`
	Addr           *string  `yaml:"addr"`
	LogDir         *string  `yaml:"log_dir"`
	APIKeys        []string `yaml:"api_keys"`
	MaxInflight    *int     `yaml:"max_inflight_waits"`
}

// WithFile layers a readywait.yaml on top of c.
func (c Config) WithFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}

	if len(fc.Candidates) > 0 {
		c.Candidates = fc.Candidates
	}
	if fc.TimeoutMS != nil {
		c.Timeout = time.Duration(*fc.TimeoutMS) * time.Millisecond
	}
	if fc.PollIntervalMS != nil {
		c.PollInterval = time.Duration(*fc.PollIntervalMS) * time.Millisecond
	}
	if fc.ProbeTimeoutMS != nil {
		c.ProbeTimeout = time.Duration(*fc.ProbeTimeoutMS) * time.Millisecond
	}
	if fc.Signature != nil {
		c.Signature = *fc.Signature
	}
	if fc.WebhookURL != nil {
		c.WebhookURL = *fc.WebhookURL
	}
	if fc.Addr != nil {
		c.Addr = *fc.Addr
	}
	if fc.LogDir != nil {
		c.LogDir = *fc.LogDir
	}
	if len(fc.APIKeys) > 0 {
		c.APIKeys = fc.APIKeys
	}
	if fc.MaxInflight != nil && *fc.MaxInflight > 0 {
		c.MaxInflight = *fc.MaxInflight
	}
	return c, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
