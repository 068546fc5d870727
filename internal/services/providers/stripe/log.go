package stripe

import (
	"fmt"

	"github.com/j-veylop/revenue-dashboard-tui/internal/logger"
)

// sdkLogger routes stripe-go log lines to the application log file.
type sdkLogger struct{}

func (sdkLogger) Debugf(format string, v ...any) { logger.Debug(fmt.Sprintf(format, v...), "source", "stripe-go") }
func (sdkLogger) Infof(format string, v ...any)  { logger.Debug(fmt.Sprintf(format, v...), "source", "stripe-go") }
func (sdkLogger) Warnf(format string, v ...any)  { logger.Warn(fmt.Sprintf(format, v...), "source", "stripe-go") }
func (sdkLogger) Errorf(format string, v ...any) { logger.Warn(fmt.Sprintf(format, v...), "source", "stripe-go") }
