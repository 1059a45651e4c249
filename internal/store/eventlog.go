package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"callsheet-cli/internal/model"
)

const eventsFileName = "events.jsonl"

func (s Store) eventsDir() string {
	return filepath.Join(s.Dir, "events")
}

func (s Store) eventsPath() string {
	return filepath.Join(s.eventsDir(), eventsFileName)
}

// AppendEvent appends one applied-command record to the workspace event log.
// The log is append-only JSONL, one event per line; it is an audit trail, not
// a source of truth (the SQLite node table is).
func (s Store) AppendEvent(typ, entityID string, payload any) (model.Event, error) {
	typ = strings.TrimSpace(typ)
	entityID = strings.TrimSpace(entityID)
	if typ == "" {
		return model.Event{}, errors.New("missing event type")
	}
	if entityID == "" {
		return model.Event{}, errors.New("missing entity id")
	}
	id, err := newRandomID("evt")
	if err != nil {
		return model.Event{}, err
	}
	ev := model.Event{
		ID:       id,
		TS:       time.Now().UTC(),
		Type:     typ,
		EntityID: entityID,
		Payload:  payload,
	}

	if err := os.MkdirAll(s.eventsDir(), 0o755); err != nil {
		return model.Event{}, err
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return model.Event{}, err
	}
	f, err := os.OpenFile(s.eventsPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return model.Event{}, err
	}
	defer f.Close()
	if _, err := f.Write(append(b, '\n')); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// ReadEvents returns every parsable event in log order. Unparsable lines are
// skipped: the log is best-effort history.
func (s Store) ReadEvents() ([]model.Event, error) {
	f, err := os.Open(s.eventsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []model.Event
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ev model.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	if err := sc.Err(); err != nil {
		return out, err
	}
	return out, nil
}
