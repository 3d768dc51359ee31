package resilience

import "time"

// CircuitBreakerConfig describes a breaker guarding one outbound dependency.
// Non-positive numbers fall back to DefaultCircuitBreakerConfig.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// DefaultCircuitBreakerConfig suits the reminder mail relay: a relay that
// rejects five sends in a row is left alone for half a minute, then probed
// with a single request.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxReq:   1,
	}
}

func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	return cfg.normalized()
}

func (c CircuitBreakerConfig) normalized() CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaults.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaults.OpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return c
}

// LogFields flattens the effective settings into logger key-value pairs.
func (c CircuitBreakerConfig) LogFields(prefix string) []any {
	if !c.Enabled {
		return []any{prefix + "_circuit", "disabled"}
	}
	c = c.normalized()
	return []any{
		prefix + "_circuit", "enabled",
		prefix + "_circuit_failures", c.FailureThreshold,
		prefix + "_circuit_open_timeout", c.OpenTimeout.String(),
		prefix + "_circuit_half_open", c.HalfOpenMaxReq,
	}
}
