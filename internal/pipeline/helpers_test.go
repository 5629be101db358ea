package pipeline_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
	"github.com/stretchr/testify/require"
)

const (
	triggerPhase = "338000020"
	otherPhase   = "123"
)

// payload builds a card.move body; mutate edits the decoded map before encoding.
func payload(t *testing.T, attachmentURL string, mutate ...func(data map[string]any)) []byte {
	t.Helper()

	data := map[string]any{
		"action": "card.move",
		"from":   map[string]any{"id": otherPhase, "name": "Inbox"},
		"to":     map[string]any{"id": triggerPhase, "name": "Processing"},
		"moved_by": map[string]any{
			"id":   12345,
			"name": "Test User",
		},
		"card": map[string]any{
			"id":             "67890",
			"title":          "Invoice",
			"pipe_id":        306294445,
			"attachment_url": attachmentURL,
		},
	}

	for _, m := range mutate {
		m(data)
	}

	body, err := json.Marshal(map[string]any{"data": data})
	require.NoError(t, err)

	return body
}

func card(data map[string]any) map[string]any {
	return data["card"].(map[string]any)
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	return names
}

func readRecord(t *testing.T, path string) *domain.Record {
	t.Helper()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var record domain.Record
	require.NoError(t, json.Unmarshal(raw, &record))

	return &record
}

// stateLog collects "from->to" pairs of the state changes logged through it.
type stateLog struct {
	mu          sync.Mutex
	transitions []string
}

func (l *stateLog) Enabled(context.Context, slog.Level) bool { return true }

func (l *stateLog) Handle(_ context.Context, r slog.Record) error {
	if r.Message != "job state changed" {
		return nil
	}

	var from, to string
	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "from":
			from = a.Value.String()
		case "to":
			to = a.Value.String()
		}
		return true
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	l.transitions = append(l.transitions, from+"->"+to)

	return nil
}

func (l *stateLog) WithAttrs([]slog.Attr) slog.Handler { return l }

func (l *stateLog) WithGroup(string) slog.Handler { return l }

func (l *stateLog) Transitions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.transitions...)
}
