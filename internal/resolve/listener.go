package resolve

import (
	"log/slog"
)

// TransferEvent describes progress of a single artifact transfer.
// This core only passes listeners through; events are fired by the
// transfer layer.
type TransferEvent struct {
	RepositoryID string
	Resource     string
	Transferred  int64
	Total        int64
	Err          error
}

// TransferListener observes artifact transfers.
type TransferListener interface {
	TransferStarted(event TransferEvent)
	TransferProgressed(event TransferEvent)
	TransferSucceeded(event TransferEvent)
	TransferFailed(event TransferEvent)
}

// RepositoryEvent describes a repository-level occurrence such as an
// artifact being resolved, installed, or found invalid.
type RepositoryEvent struct {
	Kind         string
	RepositoryID string
	Artifact     string
	Err          error
}

// RepositoryListener observes repository events.
type RepositoryListener interface {
	RepositoryEvent(event RepositoryEvent)
}

// EventDispatcher lets the host splice its own listeners in front of
// the session's repository listener.
type EventDispatcher interface {
	ChainListener(listener RepositoryListener) RepositoryListener
}

// LoggingRepositoryListener reports repository events at debug
// severity. It is always the tail of the listener chain. Artifact
// coordinates and repository ids are logged; credential values never
// reach an event.
type LoggingRepositoryListener struct {
	logger *slog.Logger
}

// NewLoggingRepositoryListener returns a listener writing to logger,
// or to the default logger when nil.
func NewLoggingRepositoryListener(logger *slog.Logger) *LoggingRepositoryListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingRepositoryListener{logger: logger}
}

// RepositoryEvent implements RepositoryListener.
func (l *LoggingRepositoryListener) RepositoryEvent(event RepositoryEvent) {
	if event.Err != nil {
		l.logger.Debug("repository event",
			"kind", event.Kind,
			"repository", event.RepositoryID,
			"artifact", event.Artifact,
			"error", event.Err)
		return
	}
	l.logger.Debug("repository event",
		"kind", event.Kind,
		"repository", event.RepositoryID,
		"artifact", event.Artifact)
}
