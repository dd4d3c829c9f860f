package core

import (
	"testing"
	"time"

	"github.com/dkeye/confbox/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestEventLog_Record_NewestFirst(t *testing.T) {
	req := require.New(t)
	log := NewEventLog(nil)
	alice := domain.Identity{URI: "alice@example.com"}

	e1 := log.Info("joined", []string{"first"}, alice)
	e2 := log.Error("set speakers failed", nil, alice)

	entries := log.Entries()
	req.Len(entries, 2)
	req.Equal(e2.ID, entries[0].ID)
	req.Equal(e1.ID, entries[1].ID)
	req.Equal(LevelError, entries[0].Level)
	req.Equal(uint64(2), entries[0].Seq)
	req.Equal(uint64(1), entries[1].Seq)
}

func TestEventLog_NoDedupNoCap(t *testing.T) {
	log := NewEventLog(nil)
	for i := 0; i < 500; i++ {
		log.Debug("tick", []string{"same"}, domain.Identity{})
	}
	require.Equal(t, 500, log.Len())
}

func TestEventLog_RecordCopiesMessages(t *testing.T) {
	req := require.New(t)
	at := time.Date(2025, 3, 3, 10, 4, 5, 0, time.UTC)
	log := NewEventLog(func() time.Time { return at })
	msgs := []string{"Alice", "Bob"}

	log.Info("set speakers to", msgs, domain.Identity{URI: "focus@example.com", DisplayName: "Focus"})
	msgs[0] = "Mallory"

	snap := log.Snapshot()
	req.Len(snap, 1)
	req.Equal([]string{"Alice", "Bob"}, snap[0].Messages)
	req.Equal("Focus", snap[0].Originator)
	req.Equal(at, snap[0].At)
	req.NotEmpty(snap[0].ID)
}
