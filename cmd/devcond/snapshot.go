package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/opendevcon/termcore/page"
)

// scrollbackLine is one NDJSON record of a snapshotted history line.
// This is a thin serialize-on-exit path, not a storage engine: no
// index, no random access, just enough to replay a session's
// scrollback into a new page on the next run.
type scrollbackLine struct {
	Session string `json:"session"`
	Text    string `json:"text"`
}

// snapshotScrollback writes every session's held history, oldest
// line first, as newline-delimited JSON under dir. Each session gets
// its own file named after it so sessions don't clobber each other.
func snapshotScrollback(dir string, sessions []*session) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("devcond: creating snapshot dir: %w", err)
	}

	for _, s := range sessions {
		path := filepath.Join(dir, s.Name+".ndjson")
		if err := snapshotSession(path, s); err != nil {
			return err
		}
	}
	return nil
}

func snapshotSession(path string, s *session) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("devcond: creating snapshot %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, line := range s.Engine.History().Lines() {
		rec := scrollbackLine{Session: s.Name, Text: lineText(line)}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("devcond: writing snapshot %s: %w", path, err)
		}
	}
	return nil
}

// lineText flattens a history Line's cells to their first rune each,
// trailing spaces trimmed, the same simplification devcon's
// renderFrame uses for the live page.
func lineText(l *page.Line) string {
	n := l.Width()
	runes := make([]rune, 0, n)
	for x := 0; x < n; x++ {
		cell := l.Cell(x)
		rs, _ := page.Resolve(cell.Ch)
		if len(rs) == 0 || rs[0] == 0 {
			runes = append(runes, ' ')
			continue
		}
		runes = append(runes, rs[0])
	}
	end := len(runes)
	for end > 0 && runes[end-1] == ' ' {
		end--
	}
	return string(runes[:end])
}

// snapshotFileTimestamp names a run's snapshot directory so repeated
// shutdowns don't overwrite each other's evidence.
func snapshotFileTimestamp(t time.Time) string {
	return t.Format("20060102-150405")
}
