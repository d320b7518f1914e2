package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/pushp314/prompttutor-backend/internal/models"
	"github.com/pushp314/prompttutor-backend/internal/store"
	"github.com/pushp314/prompttutor-backend/pkg/logger"
)

const csvHeader = "Timestamp,Username,Continent,PromptType,Score,PromptSnippet\n"

// Store is the append-only submission log. Entries are normalized on
// the way in and immutable afterwards; every other engine reads the
// same chronological view.
type Store struct {
	kv      *store.Store
	entries []models.SubmissionEvent
}

func New(kv *store.Store) *Store {
	s := &Store{kv: kv}
	kv.Load(store.KeyHistory, &s.entries)
	return s
}

// Append normalizes entry, appends it to the log and persists. The
// appended event (with defaults applied) is returned so callers fan out
// the exact stored value.
func (s *Store) Append(entry models.SubmissionEvent) (models.SubmissionEvent, error) {
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}
	if entry.Criteria == nil {
		entry.Criteria = map[string]int{}
	}
	if entry.Styles == nil {
		entry.Styles = []string{}
	}
	if entry.Type == "" {
		entry.Type = models.PromptTypeUnknown
	}

	s.entries = append(s.entries, entry)

	if err := s.kv.Save(store.KeyHistory, s.entries); err != nil {
		return entry, err
	}
	s.appendCSV(entry)
	return entry, nil
}

// appendCSV mirrors each entry into the plain-text audit log,
// best-effort.
func (s *Store) appendCSV(entry models.SubmissionEvent) {
	csv, ok := s.kv.LoadRaw(store.KeyCSV)
	if !ok || csv == "" {
		csv = csvHeader
	}

	username := entry.Username
	if username == "" {
		username = "Anonymous"
	}
	continent := entry.Continent
	if continent == "" {
		continent = "Unknown"
	}
	snippet := entry.Prompt
	if runes := []rune(snippet); len(runes) > 100 {
		snippet = string(runes[:100])
	}
	snippet = strings.ReplaceAll(snippet, ",", ";")

	row := fmt.Sprintf("%s,%s,%s,%s,%d,%q\n",
		entry.Time().UTC().Format(time.RFC3339),
		username,
		continent,
		entry.Type,
		entry.Score,
		snippet,
	)

	if err := s.kv.SaveRaw(store.KeyCSV, csv+row); err != nil {
		logger.Error().Err(err).Msg("Failed to append history CSV row")
	}
}

// Entries returns a read-only view of the log in chronological order.
// Callers must not mutate the returned slice.
func (s *Store) Entries() []models.SubmissionEvent {
	return s.entries
}

// Len returns the number of logged submissions.
func (s *Store) Len() int {
	return len(s.entries)
}

// CSV returns the audit log, header included.
func (s *Store) CSV() string {
	csv, ok := s.kv.LoadRaw(store.KeyCSV)
	if !ok || csv == "" {
		return csvHeader
	}
	return csv
}

// Replace swaps the whole log, used by data import.
func (s *Store) Replace(entries []models.SubmissionEvent) error {
	if entries == nil {
		entries = []models.SubmissionEvent{}
	}
	s.entries = entries
	return s.kv.Save(store.KeyHistory, s.entries)
}

// Reset clears the log and its CSV mirror.
func (s *Store) Reset() error {
	s.entries = nil
	if err := s.kv.Save(store.KeyHistory, []models.SubmissionEvent{}); err != nil {
		return err
	}
	return s.kv.SaveRaw(store.KeyCSV, csvHeader)
}
