// Package logging holds the process-wide zap logger.
package logging

import (
	"log"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	logger *zap.SugaredLogger
)

// Init builds the shared logger. The CLI calls it once at startup; debug
// switches to the human-readable development encoder.
func Init(debug bool) {
	mu.Lock()
	defer mu.Unlock()
	logger = build(debug)
}

// L returns the shared SugaredLogger, initializing a production logger on
// first use if Init was never called (tests, library consumers).
func L() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = build(false)
	}
	return logger
}

func build(debug bool) *zap.SugaredLogger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.TimeKey = "time"

	zl, err := cfg.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	return zl.Sugar()
}
