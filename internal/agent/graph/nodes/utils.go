package nodes

import (
	"time"

	"github.com/scheme-assistant/server/internal/agent/nlu"
	logx "github.com/scheme-assistant/server/pkg/logger"
)

// ===== Small helpers to keep graph wiring simple/readable =====

// ParseOracleTimeout returns a sane default when the configured value is invalid.
func ParseOracleTimeout(raw string) time.Duration {
	if raw == "" {
		return nlu.DefaultTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logx.Warn().Str("timeout", raw).Msg("Invalid ORACLE_TIMEOUT, using default")
		return nlu.DefaultTimeout
	}
	return d
}

// MaxRunSteps bounds graph execution: every node at most once plus slack.
func MaxRunSteps() int {
	return 20
}
