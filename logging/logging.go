// Package logging defines the Logger interface used throughout the consensus
// strategies, along with functions for setting the global log level and
// per-package log levels.
package logging

import (
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logLevel      zapcore.Level
	packageLevels = make(map[string]zapcore.Level)
	mut           sync.RWMutex
)

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "panic":
		return zap.PanicLevel
	case "fatal":
		return zap.FatalLevel
	default:
		panic("invalid log level '" + level + "'")
	}
}

// SetLogLevel sets the global log level.
func SetLogLevel(levelStr string) {
	level := parseLevel(levelStr)
	mut.Lock()
	logLevel = level
	mut.Unlock()
}

// SetPackageLogLevel sets a log level for a package, overriding the global level.
func SetPackageLogLevel(packageName, levelStr string) {
	level := parseLevel(levelStr)
	mut.Lock()
	packageLevels[packageName] = level
	mut.Unlock()
}

// Logger is the logging interface used by the strategies. It is based on
// zap.SugaredLogger.
type Logger interface {
	Debug(args ...any)
	Debugf(template string, args ...any)
	Info(args ...any)
	Infof(template string, args ...any)
	Warn(args ...any)
	Warnf(template string, args ...any)
	Error(args ...any)
	Errorf(template string, args ...any)
	Panic(args ...any)
	Panicf(template string, args ...any)
	Fatal(args ...any)
	Fatalf(template string, args ...any)
}

type logger struct {
	sugar Logger
	level zap.AtomicLevel
	mut   sync.Mutex
}

// updateLevel applies a matching per-package level before a message is
// written. It inspects the caller's file path two frames up, which is the
// call site of the public method below.
func (lg *logger) updateLevel() {
	mut.RLock()
	defer mut.RUnlock()

	if len(packageLevels) < 1 {
		return
	}

	if _, file, _, ok := runtime.Caller(2); ok {
		for pkg, level := range packageLevels {
			if strings.Contains(file, pkg) {
				lg.level.SetLevel(level)
				return
			}
		}
	}

	lg.level.SetLevel(logLevel)
}

func (lg *logger) Debug(args ...any) {
	lg.mut.Lock()
	defer lg.mut.Unlock()
	lg.updateLevel()
	lg.sugar.Debug(args...)
}

func (lg *logger) Debugf(template string, args ...any) {
	lg.mut.Lock()
	defer lg.mut.Unlock()
	lg.updateLevel()
	lg.sugar.Debugf(template, args...)
}

func (lg *logger) Info(args ...any) {
	lg.mut.Lock()
	defer lg.mut.Unlock()
	lg.updateLevel()
	lg.sugar.Info(args...)
}

func (lg *logger) Infof(template string, args ...any) {
	lg.mut.Lock()
	defer lg.mut.Unlock()
	lg.updateLevel()
	lg.sugar.Infof(template, args...)
}

func (lg *logger) Warn(args ...any) {
	lg.mut.Lock()
	defer lg.mut.Unlock()
	lg.updateLevel()
	lg.sugar.Warn(args...)
}

func (lg *logger) Warnf(template string, args ...any) {
	lg.mut.Lock()
	defer lg.mut.Unlock()
	lg.updateLevel()
	lg.sugar.Warnf(template, args...)
}

func (lg *logger) Error(args ...any) {
	lg.mut.Lock()
	defer lg.mut.Unlock()
	lg.updateLevel()
	lg.sugar.Error(args...)
}

func (lg *logger) Errorf(template string, args ...any) {
	lg.mut.Lock()
	defer lg.mut.Unlock()
	lg.updateLevel()
	lg.sugar.Errorf(template, args...)
}

func (lg *logger) Panic(args ...any) {
	lg.mut.Lock()
	defer lg.mut.Unlock()
	lg.updateLevel()
	lg.sugar.Panic(args...)
}

func (lg *logger) Panicf(template string, args ...any) {
	lg.mut.Lock()
	defer lg.mut.Unlock()
	lg.updateLevel()
	lg.sugar.Panicf(template, args...)
}

func (lg *logger) Fatal(args ...any) {
	lg.mut.Lock()
	defer lg.mut.Unlock()
	lg.updateLevel()
	lg.sugar.Fatal(args...)
}

func (lg *logger) Fatalf(template string, args ...any) {
	lg.mut.Lock()
	defer lg.mut.Unlock()
	lg.updateLevel()
	lg.sugar.Fatalf(template, args...)
}

// New returns a new logger for stderr with the given name.
func New(name string) Logger {
	var config zap.Config
	if strings.ToLower(os.Getenv("ACCORD_LOG_TYPE")) == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}
	mut.RLock()
	config.Level.SetLevel(logLevel)
	mut.RUnlock()
	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	return &logger{sugar: l.Sugar().Named(name), level: config.Level}
}

// NewWithDest returns a new logger for the given destination with the given name.
func NewWithDest(dest io.Writer, name string) Logger {
	atom := zap.NewAtomicLevelAt(logLevel)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.AddSync(dest), atom)
	l := zap.New(core, zap.AddCallerSkip(1))
	return &logger{sugar: l.Sugar().Named(name), level: atom}
}
