package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type jsonLogger struct {
	log zerolog.Logger
}

// New returns a JSON logger writing to stdout.
func New(service string) Logger {
	return NewWithWriter(service, os.Stdout)
}

// NewConsole returns a human readable logger for local runs.
func NewConsole(service string) Logger {
	return NewWithWriter(service, zerolog.ConsoleWriter{Out: os.Stderr})
}

func NewWithWriter(service string, w io.Writer) Logger {
	hostname, _ := os.Hostname()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	return &jsonLogger{
		log: zerolog.New(w).With().
			Timestamp().
			Str("service", service).
			Str("hostname", hostname).
			Logger(),
	}
}

// Nop discards everything. Tests use it.
func Nop() Logger {
	return &jsonLogger{log: zerolog.Nop()}
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.write(l.log.Info(), action, message, requestID, details)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.write(l.log.Debug(), action, message, requestID, details)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.write(l.log.Error().Err(err), action, message, requestID, details)
}

func (l *jsonLogger) write(e *zerolog.Event, action, message, requestID string, details map[string]interface{}) {
	e = e.Str("action", action)
	if requestID != "" {
		e = e.Str("request_id", requestID)
	}
	if len(details) > 0 {
		e = e.Fields(map[string]interface{}{"details": details})
	}
	e.Msg(message)
}
