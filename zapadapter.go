package h2engine

import "go.uber.org/zap"

// ZapLogger adapts a *zap.SugaredLogger to the engine's Logger interface, for
// hosts that already carry zap elsewhere and want the engine's connection
// events folded into the same structured log.
type ZapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps l. A nil l yields a logger that discards everything,
// so callers can't accidentally install a logger that panics on first use.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		return &ZapLogger{s: zap.NewNop().Sugar()}
	}
	return &ZapLogger{s: l.Sugar()}
}

func (z *ZapLogger) Debugf(format string, args ...interface{}) { z.s.Debugf(format, args...) }
func (z *ZapLogger) Infof(format string, args ...interface{})  { z.s.Infof(format, args...) }
func (z *ZapLogger) Warnf(format string, args ...interface{})  { z.s.Warnf(format, args...) }
func (z *ZapLogger) Errorf(format string, args ...interface{}) { z.s.Errorf(format, args...) }
