package ratelimit

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig limits one route. A Path ending in "/" covers every path
// below it. Burst defaults to Limit.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// LoadConfig reads the RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) *Config {
	e := envReader{getenv: getenv}
	if !e.boolVar("RATE_LIMIT_ENABLED", true) {
		return &Config{}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    e.intVar("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   e.durationVar("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: e.durationVar("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       clientSet(getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       clientSet(getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs puts the tightest budgets on routes that call a
// model or an office converter.
func DefaultEndpointConfigs() []EndpointConfig {
	post := func(path string, limit int, window time.Duration, burst int) EndpointConfig {
		return EndpointConfig{Path: path, Method: "POST", Limit: limit, Window: window, Burst: burst}
	}
	return []EndpointConfig{
		post("/api/generate-outline", 30, time.Hour, 5),
		post("/api/convert", 30, time.Hour, 3),
		post("/api/generate-ppt", 60, time.Hour, 5),
		post("/api/generate-ppt/stream", 60, time.Hour, 5),
		post("/api/upload-template", 30, time.Minute, 5),
		post("/api/auth/token", 10, time.Minute, 5),
		// polling shares one bucket across task ids
		{Path: "/api/task/", Method: "GET", Limit: 600, Window: time.Minute, Burst: 60},
	}
}

// envReader falls back to the default and logs when a value does not parse.
type envReader struct {
	getenv func(string) string
}

func (e envReader) lookup(key string, parse func(string) error) {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return
	}
	if err := parse(v); err != nil {
		log.Printf("[ratelimit] ignoring %s=%q: %v", key, v, err)
	}
}

func (e envReader) intVar(key string, def int) int {
	e.lookup(key, func(v string) (err error) {
		n, err := strconv.Atoi(v)
		if err == nil {
			def = n
		}
		return err
	})
	return def
}

func (e envReader) boolVar(key string, def bool) bool {
	e.lookup(key, func(v string) (err error) {
		b, err := strconv.ParseBool(v)
		if err == nil {
			def = b
		}
		return err
	})
	return def
}

func (e envReader) durationVar(key string, def time.Duration) time.Duration {
	e.lookup(key, func(v string) (err error) {
		d, err := time.ParseDuration(v)
		if err == nil {
			def = d
		}
		return err
	})
	return def
}

// clientSet splits a comma separated client list.
func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	return set
}
