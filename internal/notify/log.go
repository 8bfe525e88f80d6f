package notify

import (
	"context"

	"github.com/JRomainG/TGVMaxBot/internal/logger"
)

// LogSink writes messages to the log instead of a chat. Used when no
// chat transport is configured.
type LogSink struct {
	logger logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{logger: log}
}

func (s *LogSink) Send(_ context.Context, chatID int64, text string, opts SendOptions) error {
	s.logger.Info("notification",
		logger.Int64("chat_id", chatID),
		logger.Bool("silent", opts.Silent),
		logger.String("text", text))
	return nil
}
