package httpapi

import (
	"fmt"

	"github.com/riskibarqy/pool-league/internal/platform/logging"
)

func pathf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func jsonf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func nopLogger() *logging.Logger {
	return logging.NewNop()
}
