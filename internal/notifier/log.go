package notifier

import "poswatch/internal/logger"

// Log is the fallback transport when Telegram is not configured: the
// composed report is written to the local log and the send always
// succeeds. An unconfigured transport is a supported mode, not an error.
type Log struct{}

func NewLog() *Log { return &Log{} }

func (*Log) SendText(text string) error {
	logger.Infof("notifier: transport not configured, message follows")
	logger.InfoBlock(text)
	return nil
}
