// Package logger builds the structured loggers used throughout IgniteDB.
// Every subsystem receives a *zap.SugaredLogger named after the service
// that owns it, so log lines can be filtered by component without parsing
// messages.
package logger

import (
	"go.uber.org/zap"
)

// New builds a production zap logger scoped to the given service name.
// It panics only if zap itself cannot construct its default production
// config, which does not happen under normal operation.
func New(service string) *zap.SugaredLogger {
	log, err := zap.NewProduction()
	if err != nil {
		// zap.NewProduction only fails if the process can't open its
		// default sinks (stderr); there is nothing a caller could do
		// with a wrapped error here that's better than failing loudly.
		panic(err)
	}

	return log.Named(service).Sugar()
}
