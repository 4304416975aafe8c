package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"uxkit/misc"
)

type LoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	Mode        string `yaml:"mode,omitempty" validate:"omitempty,oneof=append overwrite"`
}

type LoggingConfig struct {
	FileLogger    LoggerConfig `yaml:"file"`
	ConsoleLogger LoggerConfig `yaml:"console"`
}

// Prepare builds program logger. Everything printed to console goes to stderr,
// stdout is reserved for reports. When rpt is not nil file log is always
// written at debug level and stored in the report.
func (conf *LoggingConfig) Prepare(rpt *Report) (*zap.Logger, error) {
	console := consoleCore(conf.ConsoleLogger.Level, os.Stderr)

	level, mode := conf.FileLogger.Level, conf.FileLogger.Mode
	if rpt != nil {
		level, mode = "debug", "overwrite"
	}

	file, redirected, err := fileCore(level, mode, conf.FileLogger.Destination, rpt)
	if err != nil {
		return nil, err
	}

	log := zap.New(zapcore.NewTee(console, file), zap.AddCaller())
	if len(redirected) > 0 {
		log.Warn("Log file was redirected to new location", zap.String("location", redirected))
	}
	return log.Named(misc.GetAppName()), nil
}

func consoleCore(level string, stream *os.File) zapcore.Core {
	var from zapcore.Level
	switch level {
	case "normal":
		from = zapcore.InfoLevel
	case "debug":
		from = zapcore.DebugLevel
	default:
		return zapcore.NewNopCore()
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if EnableColorOutput(stream) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	}

	low := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(stream),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return from <= lvl && lvl < zapcore.ErrorLevel
		}))
	// errors are printed without verbose details
	high := zapcore.NewCore(newEncoder(ec), zapcore.Lock(stream),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.ErrorLevel
		}))
	return zapcore.NewTee(high, low)
}

func openLog(name, mode string) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if mode == "append" {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(name, flags, 0644)
}

// fileCore returns file logging core, when destination could not be opened
// log goes to temporary file which name is returned as redirected.
func fileCore(level, mode, destination string, rpt *Report) (core zapcore.Core, redirected string, err error) {
	var lvl zapcore.Level
	switch level {
	case "debug":
		lvl = zapcore.DebugLevel
	case "normal":
		lvl = zapcore.InfoLevel
	default:
		return zapcore.NewNopCore(), "", nil
	}

	capturePanics(filepath.Dir(destination), mode, rpt)

	f, err := openLog(destination, mode)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+".*.log"); err != nil {
			return nil, "", fmt.Errorf("unable to access file log destination (%s): %w", destination, err)
		}
		redirected = f.Name()
	}
	rpt.Store("final.log", f.Name())

	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zapcore.NewCore(enc, zapcore.Lock(f), zap.NewAtomicLevelAt(lvl)), redirected, nil
}

// capturePanics directs runtime crash output to a file next to the log, or to
// a temporary one. Failure to do so is silently ignored.
func capturePanics(dir, mode string, rpt *Report) {
	f, err := openLog(filepath.Join(dir, misc.GetAppName()+"-panic.log"), mode)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-panic.*.log"); err != nil {
			return
		}
	}
	defer f.Close()

	if err := debug.SetCrashOutput(f, debug.CrashOptions{}); err != nil {
		return
	}
	rpt.Store("panic.log", f.Name())
}

type consoleEnc struct {
	zapcore.Encoder
}

func newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleEnc{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleEnc) Clone() zapcore.Encoder {
	return consoleEnc{c.Encoder.Clone()}
}

// EncodeEntry replaces error fields with plain errors, so console does not
// get "errorVerbose" output.
func (c consoleEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	plain := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if e, ok := f.Interface.(error); ok && f.Type == zapcore.ErrorType {
			f.Interface = errors.New(e.Error())
		}
		plain = append(plain, f)
	}
	return c.Encoder.EncodeEntry(ent, plain)
}
