package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a key/value logger that scrubs patient data from every field
// before it reaches zap.
type Logger struct {
	sugar  *zap.SugaredLogger
	policy *Policy
}

// New builds a logger for mode: "prod"/"production" is JSON at info,
// "test"/"quiet" is console at warn, anything else is console at debug.
func New(mode string) (*Logger, error) {
	cfg, level := zap.NewDevelopmentConfig(), zapcore.DebugLevel
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg, level = zap.NewProductionConfig(), zapcore.InfoLevel
	case "test", "quiet":
		level = zapcore.WarnLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: z.Sugar(), policy: PolicyFromEnv(os.Getenv)}, nil
}

func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar(), policy: DefaultPolicy()}
}

// NewWithCore wires an arbitrary zap core, used by tests to observe output.
func NewWithCore(core zapcore.Core, p *Policy) *Logger {
	if p == nil {
		p = DefaultPolicy()
	}
	return &Logger{sugar: zap.New(core).Sugar(), policy: p}
}

func (l *Logger) Sync() { _ = l.sugar.Sync() }

func (l *Logger) Debug(msg string, kv ...interface{}) { l.sugar.Debugw(msg, l.policy.Apply(kv)...) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.sugar.Infow(msg, l.policy.Apply(kv)...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.sugar.Warnw(msg, l.policy.Apply(kv)...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.sugar.Errorw(msg, l.policy.Apply(kv)...) }
func (l *Logger) Fatal(msg string, kv ...interface{}) { l.sugar.Fatalw(msg, l.policy.Apply(kv)...) }

func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(l.policy.Apply(kv)...), policy: l.policy}
}
