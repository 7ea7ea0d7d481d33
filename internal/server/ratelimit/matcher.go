package ratelimit

import "strings"

// MatchEndpoint finds the config for a path and method. Exact pattern
// matches win over prefix matches; among prefix matches the longest
// pattern wins.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	var best *EndpointConfig
	bestLen := -1

	for i := range configs {
		ec := &configs[i]
		if ec.Method != "" && ec.Method != method {
			continue
		}
		if ec.Pattern == path {
			return ec
		}
		if strings.HasSuffix(ec.Pattern, "/") && strings.HasPrefix(path, ec.Pattern) {
			if len(ec.Pattern) > bestLen {
				best = ec
				bestLen = len(ec.Pattern)
			}
			continue
		}
		if strings.HasPrefix(path, ec.Pattern+"/") {
			if len(ec.Pattern) > bestLen {
				best = ec
				bestLen = len(ec.Pattern)
			}
		}
	}
	return best
}
