package ratelimit

import "strings"

// unlimited covers the banner and health checks.
var unlimited = EndpointConfig{}

// MatchEndpoint returns the config for a request, or nil when only the
// default limit applies. An exact path wins over the longest matching
// prefix entry.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && (path == "/" || path == "/health") {
		ep := unlimited
		return &ep
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) &&
			(best == nil || len(c.Path) > len(best.Path)) {
			best = c
		}
	}
	return best
}
