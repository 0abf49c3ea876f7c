package log

import "github.com/pion/logging"

// Nil is a logger that drops all logs.
type Nil struct{}

var _ logging.LeveledLogger = (*Nil)(nil)

func (*Nil) Trace(string)                  {}
func (*Nil) Tracef(string, ...interface{}) {}
func (*Nil) Debug(string)                  {}
func (*Nil) Debugf(string, ...interface{}) {}
func (*Nil) Info(string)                   {}
func (*Nil) Infof(string, ...interface{})  {}
func (*Nil) Warn(string)                   {}
func (*Nil) Warnf(string, ...interface{})  {}
func (*Nil) Error(string)                  {}
func (*Nil) Errorf(string, ...interface{}) {}
