package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/event-tracker-api/internal/models"
)

const seedYAML = `events:
  - id: evt_001
    title: Math worksheet
    type: Homework
    dueDate: "2026-02-18"
  - title: Chapter quiz
    type: quiz
    dueDate: "2026-02-20"
`

func TestParseSeed(t *testing.T) {
	events, err := ParseSeed([]byte(seedYAML))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "homework", events[0].Type)
	assert.Equal(t, "evt_001", events[0].ID)
	assert.Empty(t, events[1].ID)

	_, err = ParseSeed([]byte("events:\n  - title: x\n    type: y\n    dueDate: tomorrow\n"))
	assert.Error(t, err)

	_, err = ParseSeed([]byte("events:\n  - {id: a, title: x, type: y, dueDate: '2026-01-01'}\n  - {id: a, title: z, type: y, dueDate: '2026-01-02'}\n"))
	assert.Error(t, err)
}

func TestSeedFromFileOnlyWhenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))
	ctx := context.Background()

	repo := newMemEvents()
	n, err := NewSeedService(repo, nil).SeedFromFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	total, _ := repo.Count(ctx)
	assert.Equal(t, 2, total)

	populated := newMemEvents(models.Event{ID: "evt_x", Title: "x", Type: "x", DueDate: "2026-01-01"})
	n, err = NewSeedService(populated, nil).SeedFromFile(ctx, path)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = NewSeedService(newMemEvents(), nil).SeedFromFile(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBundledSeedFileParses(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "seed", "events.yaml"))
	require.NoError(t, err)

	events, err := ParseSeed(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"evt_001", "evt_002", "evt_003"}, eventIDs(events))
}
