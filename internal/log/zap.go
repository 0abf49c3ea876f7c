// Package log adapts go.uber.org/zap to the logging.LeveledLogger
// interface the codec packages accept.
package log

import (
	"github.com/pion/logging"
	"go.uber.org/zap"
)

// Zap is a logging.LeveledLogger backed by a zap.SugaredLogger. zap has
// no trace level; trace messages are emitted at debug.
type Zap struct {
	sugar *zap.SugaredLogger
}

// NewZap creates a LeveledLogger from a zap.Logger.
func NewZap(logger *zap.Logger) *Zap {
	return &Zap{sugar: logger.Sugar()}
}

var _ logging.LeveledLogger = (*Zap)(nil)

// Trace logs at trace level.
func (l *Zap) Trace(msg string) { l.sugar.Debug(msg) }

// Tracef formats and logs at trace level.
func (l *Zap) Tracef(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }

// Debug logs at debug level.
func (l *Zap) Debug(msg string) { l.sugar.Debug(msg) }

// Debugf formats and logs at debug level.
func (l *Zap) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }

// Info logs at info level.
func (l *Zap) Info(msg string) { l.sugar.Info(msg) }

// Infof formats and logs at info level.
func (l *Zap) Infof(format string, args ...interface{}) { l.sugar.Infof(format, args...) }

// Warn logs at warn level.
func (l *Zap) Warn(msg string) { l.sugar.Warn(msg) }

// Warnf formats and logs at warn level.
func (l *Zap) Warnf(format string, args ...interface{}) { l.sugar.Warnf(format, args...) }

// Error logs at error level.
func (l *Zap) Error(msg string) { l.sugar.Error(msg) }

// Errorf formats and logs at error level.
func (l *Zap) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }
