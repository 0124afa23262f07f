package bot

import (
	"fmt"
	"log/slog"
	"strings"
)

// Logger routes telego's internal logs to slog and hides the bot token.
type Logger struct {
	prefix   string
	replacer *strings.Replacer
}

func NewLogger(prefix string, token string) Logger {
	replacer := strings.NewReplacer()
	if token != "" {
		replacer = strings.NewReplacer(token, "BOT_TOKEN")
	}

	return Logger{
		prefix:   prefix,
		replacer: replacer,
	}
}

func (l Logger) Debugf(format string, args ...any) {
	slog.Debug(l.prefix + l.replacer.Replace(fmt.Sprintf(format, args...)))
}

func (l Logger) Errorf(format string, args ...any) {
	slog.Error(l.prefix + l.replacer.Replace(fmt.Sprintf(format, args...)))
}
