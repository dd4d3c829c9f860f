package core

import (
	"time"

	"github.com/dkeye/confbox/internal/domain"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
	LevelDebug   Level = "debug"
)

// Entry is one noteworthy session occurrence shown in the drawer.
type Entry struct {
	ID         ulid.ULID
	Seq        uint64
	Level      Level
	Action     string
	Messages   []string
	Originator domain.Identity
	At         time.Time
}

func (e Entry) DTO() EntryDTO {
	return EntryDTO{
		ID:         e.ID.String(),
		Seq:        e.Seq,
		Level:      e.Level,
		Action:     e.Action,
		Messages:   append([]string(nil), e.Messages...),
		Originator: e.Originator.Name(),
		At:         e.At,
	}
}

// EventLog is an append-only, newest-first record of session events.
// It is not safe for concurrent use; the session loop owns it.
//
// The log is unbounded: a long-running conference keeps every entry.
type EventLog struct {
	entries []Entry
	seq     uint64
	now     func() time.Time
	logger  zerolog.Logger
}

func NewEventLog(now func() time.Time) *EventLog {
	if now == nil {
		now = time.Now
	}
	return &EventLog{
		now:    now,
		logger: log.With().Str("module", "core.eventlog").Logger(),
	}
}

// Record inserts a new entry at the head of the log and returns it.
func (l *EventLog) Record(level Level, action string, messages []string, originator domain.Identity) Entry {
	l.seq++
	at := l.now()
	e := Entry{
		ID:         ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()),
		Seq:        l.seq,
		Level:      level,
		Action:     action,
		Messages:   append([]string(nil), messages...),
		Originator: originator,
		At:         at,
	}
	l.entries = append([]Entry{e}, l.entries...)

	l.logger.Debug().
		Str("level", string(level)).
		Str("action", action).
		Strs("messages", messages).
		Str("originator", originator.URI).
		Msg("event recorded")
	return e
}

func (l *EventLog) Error(action string, messages []string, originator domain.Identity) Entry {
	return l.Record(LevelError, action, messages, originator)
}

func (l *EventLog) Warning(action string, messages []string, originator domain.Identity) Entry {
	return l.Record(LevelWarning, action, messages, originator)
}

func (l *EventLog) Info(action string, messages []string, originator domain.Identity) Entry {
	return l.Record(LevelInfo, action, messages, originator)
}

func (l *EventLog) Debug(action string, messages []string, originator domain.Identity) Entry {
	return l.Record(LevelDebug, action, messages, originator)
}

// Entries returns a copy of the log, newest first.
func (l *EventLog) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

func (l *EventLog) Len() int { return len(l.entries) }

func (l *EventLog) Snapshot() []EntryDTO {
	return lo.Map(l.entries, func(e Entry, _ int) EntryDTO { return e.DTO() })
}
