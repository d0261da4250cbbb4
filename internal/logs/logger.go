// Package logs builds the zap loggers used by the oauthbridge CLI, with
// optional rotating file output.
package logs

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pipedock/oauthbridge/internal/config"
)

// Setup creates a logger with console and file outputs per the configuration.
func Setup(cfg *config.LogConfig) (*zap.Logger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil log config")
	}

	level := parseLevel(cfg.Level)

	var cores []zapcore.Core
	if cfg.EnableConsole {
		cores = append(cores, zapcore.NewCore(
			consoleEncoder(cfg.JSONFormat),
			zapcore.AddSync(os.Stderr),
			level,
		))
	}
	if cfg.EnableFile {
		fileCore, err := fileCore(cfg, level)
		if err != nil {
			return nil, fmt.Errorf("failed to create file core: %w", err)
		}
		cores = append(cores, fileCore)
	}
	if len(cores) == 0 {
		return nil, fmt.Errorf("no log outputs configured")
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func consoleEncoder(jsonFormat bool) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if jsonFormat {
		return zapcore.NewJSONEncoder(encCfg)
	}
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encCfg)
}

func fileCore(cfg *config.LogConfig, level zapcore.Level) (zapcore.Core, error) {
	dir, err := logDir(cfg)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", dir, err)
	}

	writer := &lumberjack.Logger{
		Filename:   filepath.Join(dir, cfg.Filename),
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(writer), level), nil
}

// logDir returns the configured log directory, defaulting to
// ~/.oauthbridge/logs.
func logDir(cfg *config.LogConfig) (string, error) {
	if cfg.LogDir != "" {
		return cfg.LogDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".oauthbridge", "logs"), nil
}
