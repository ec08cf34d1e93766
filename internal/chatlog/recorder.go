// Package chatlog appends chat exchanges to a local transcript file. The
// transcript is write-only within this service; nothing ever reads it back,
// and a failed write must never fail the response it belongs to.
package chatlog

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Recorder observes completed exchanges. The relay calls it after an FAQ hit,
// after a successful model turn, and after a failure (with the error text in
// place of the bot reply).
type Recorder interface {
	Record(sessionID, userText, botText string)
}

// FileRecorder writes one JSON line per exchange to an append-only file.
type FileRecorder struct {
	logger *zap.Logger
}

// NewFileRecorder opens (or creates) the transcript file at path.
func NewFileRecorder(path string) (*FileRecorder, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("open chat log %q: %w", path, err)
	}
	return &FileRecorder{logger: logger}, nil
}

func (r *FileRecorder) Record(sessionID, userText, botText string) {
	r.logger.Info("exchange",
		zap.String("session_id", sessionID),
		zap.String("user", userText),
		zap.String("bot", botText),
	)
}

func (r *FileRecorder) Close() error {
	// Sync errors on file sinks are not actionable here.
	_ = r.logger.Sync()
	return nil
}

// Nop discards every exchange; used in tests and as the fallback when the
// transcript file can't be opened.
type Nop struct{}

func (Nop) Record(sessionID, userText, botText string) {}
