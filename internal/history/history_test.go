package history

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pushp314/prompttutor-backend/internal/models"
	"github.com/pushp314/prompttutor-backend/internal/store"
)

func setupHistory(t *testing.T) *Store {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	kv, err := store.New(db)
	assert.NoError(t, err)
	return New(kv)
}

func TestAppend_NormalizesDefaults(t *testing.T) {
	h := setupHistory(t)

	event, err := h.Append(models.SubmissionEvent{Prompt: "Write a haiku", Score: 70})
	assert.NoError(t, err)

	assert.NotZero(t, event.Timestamp)
	assert.NotNil(t, event.Criteria)
	assert.NotNil(t, event.Styles)
	assert.Equal(t, models.PromptTypeUnknown, event.Type)

	// The stored entry is exactly the normalized one
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, event, h.Entries()[0])
}

func TestAppend_PreservesChronologicalOrder(t *testing.T) {
	h := setupHistory(t)

	for i := 0; i < 3; i++ {
		_, err := h.Append(models.SubmissionEvent{
			Prompt: fmt.Sprintf("prompt %d", i),
			Score:  60 + i,
		})
		assert.NoError(t, err)
	}

	entries := h.Entries()
	assert.Len(t, entries, 3)
	assert.Equal(t, "prompt 0", entries[0].Prompt)
	assert.Equal(t, "prompt 2", entries[2].Prompt)
}

func TestHistory_SurvivesReload(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	kv, err := store.New(db)
	assert.NoError(t, err)

	h := New(kv)
	_, err = h.Append(models.SubmissionEvent{Prompt: "persist me", Type: models.PromptTypeCoding, Score: 85})
	assert.NoError(t, err)

	reloaded := New(kv)
	assert.Equal(t, 1, reloaded.Len())
	assert.Equal(t, "persist me", reloaded.Entries()[0].Prompt)
}

func TestCSV_HeaderAndRows(t *testing.T) {
	h := setupHistory(t)

	// Empty log still serves the header
	assert.Equal(t, csvHeader, h.CSV())

	_, err := h.Append(models.SubmissionEvent{
		Prompt:    "Compare apples, oranges, and pears",
		Type:      models.PromptTypeResearch,
		Score:     88,
		Username:  "ada",
		Continent: "Europe",
	})
	assert.NoError(t, err)

	csv := h.CSV()
	lines := strings.Split(strings.TrimSuffix(csv, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, strings.TrimSuffix(csvHeader, "\n"), lines[0])
	assert.Contains(t, lines[1], "ada")
	assert.Contains(t, lines[1], "Europe")
	assert.Contains(t, lines[1], "88")
	// Commas inside the snippet are replaced so columns stay aligned
	assert.Contains(t, lines[1], "apples; oranges; and pears")
}

func TestCSV_AnonymousDefaults(t *testing.T) {
	h := setupHistory(t)

	_, err := h.Append(models.SubmissionEvent{Prompt: "hello", Score: 50})
	assert.NoError(t, err)

	csv := h.CSV()
	assert.Contains(t, csv, "Anonymous")
	assert.Contains(t, csv, "Unknown")
}

func TestCSV_SnippetTruncated(t *testing.T) {
	h := setupHistory(t)

	long := strings.Repeat("x", 300)
	_, err := h.Append(models.SubmissionEvent{Prompt: long, Score: 50})
	assert.NoError(t, err)

	assert.NotContains(t, h.CSV(), strings.Repeat("x", 101))
	assert.Contains(t, h.CSV(), strings.Repeat("x", 100))
}

func TestCSV_SnippetTruncatesOnRuneBoundary(t *testing.T) {
	h := setupHistory(t)

	long := strings.Repeat("é", 300)
	_, err := h.Append(models.SubmissionEvent{Prompt: long, Score: 50})
	assert.NoError(t, err)

	assert.True(t, utf8.ValidString(h.CSV()))
	assert.Contains(t, h.CSV(), strings.Repeat("é", 100))
	assert.NotContains(t, h.CSV(), strings.Repeat("é", 101))
}

func TestReplaceAndReset(t *testing.T) {
	h := setupHistory(t)

	_, err := h.Append(models.SubmissionEvent{Prompt: "old", Score: 10})
	assert.NoError(t, err)

	assert.NoError(t, h.Replace([]models.SubmissionEvent{
		{Prompt: "imported", Score: 90, Timestamp: 1700000000000},
	}))
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, "imported", h.Entries()[0].Prompt)

	assert.NoError(t, h.Reset())
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, csvHeader, h.CSV())
}
