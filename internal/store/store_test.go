package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestStore initializes an in-memory SQLite DB unique to the test
func setupTestStore(t *testing.T) *Store {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	s, err := New(db)
	assert.NoError(t, err)
	return s
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := setupTestStore(t)

	value := map[string]int{"Clarity": 5, "Structure": 4}
	assert.NoError(t, s.Save(KeyBadges, value))

	var loaded map[string]int
	ok := s.Load(KeyBadges, &loaded)
	assert.True(t, ok)
	assert.Equal(t, value, loaded)
}

func TestStore_LoadMissingKeyLeavesDefault(t *testing.T) {
	s := setupTestStore(t)

	loaded := []string{"sentinel"}
	ok := s.Load(KeyHistory, &loaded)
	assert.False(t, ok)
	assert.Equal(t, []string{"sentinel"}, loaded)
}

func TestStore_LoadCorruptValueLeavesDefault(t *testing.T) {
	s := setupTestStore(t)

	// Write garbage directly, bypassing Save's JSON encoding
	assert.NoError(t, s.SaveRaw(KeyLeaderboard, "{not valid json"))

	loaded := map[string]int{"sentinel": 1}
	ok := s.Load(KeyLeaderboard, &loaded)
	assert.False(t, ok)
	assert.Equal(t, map[string]int{"sentinel": 1}, loaded)
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := setupTestStore(t)

	assert.NoError(t, s.Save(KeyUserProfile, map[string]string{"username": "ada"}))
	assert.NoError(t, s.Save(KeyUserProfile, map[string]string{"username": "grace"}))

	var loaded map[string]string
	assert.True(t, s.Load(KeyUserProfile, &loaded))
	assert.Equal(t, "grace", loaded["username"])
}

func TestStore_RawRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	csv := "Timestamp,Username\n2024-01-01T00:00:00Z,ada\n"
	assert.NoError(t, s.SaveRaw(KeyCSV, csv))

	loaded, ok := s.LoadRaw(KeyCSV)
	assert.True(t, ok)
	assert.Equal(t, csv, loaded)
}

func TestStore_ResetRemovesAllKeys(t *testing.T) {
	s := setupTestStore(t)

	for _, key := range Keys {
		assert.NoError(t, s.Save(key, "data"))
	}
	assert.NoError(t, s.Reset())

	for _, key := range Keys {
		var v string
		assert.False(t, s.Load(key, &v), "key %s should be gone", key)
	}
}
