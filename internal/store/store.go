package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pushp314/prompttutor-backend/pkg/logger"
)

// Storage keys owned by the core. The PRT_ prefix is kept from the
// original browser profile format so exported data stays portable.
const (
	KeyUserProfile    = "PRT_UserProfile"
	KeyHistory        = "PRT_History"
	KeyLeaderboard    = "PRT_Leaderboard"
	KeyBadges         = "PRT_Badges"
	KeyKnowledgeGraph = "PRT_KnowledgeGraph"
	KeyCSV            = "PRT_CSV"
)

// Keys lists every key the store owns, used by Reset.
var Keys = []string{
	KeyUserProfile,
	KeyHistory,
	KeyLeaderboard,
	KeyBadges,
	KeyKnowledgeGraph,
	KeyCSV,
}

// Record is the backing row: one JSON (or raw text) value per key.
type Record struct {
	Key   string `gorm:"primaryKey;type:text"`
	Value string `gorm:"type:text"`
}

func (Record) TableName() string {
	return "store_records"
}

// Store is the persistence collaborator: a key-value contract over the
// local database. Corrupt or missing data is never fatal; Load leaves
// dest at its caller-supplied default instead.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return &Store{db: db}, nil
}

// Load reads the JSON value under key into dest. A missing row or a
// value that no longer parses is treated as "empty default": dest is
// left untouched and ok is false.
func (s *Store) Load(key string, dest interface{}) (ok bool) {
	var rec Record
	if err := s.db.First(&rec, "key = ?", key).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error().Err(err).Str("key", key).Msg("Store read failed, using default")
		}
		return false
	}

	if err := json.Unmarshal([]byte(rec.Value), dest); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Corrupt stored value, using default")
		return false
	}
	return true
}

// Save writes the JSON encoding of value under key. A write failure is
// returned to the caller: in-memory state and persisted state are now
// inconsistent and the caller decides how loudly to say so.
func (s *Store) Save(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	rec := Record{Key: key, Value: string(raw)}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// LoadRaw returns the stored value as-is (used for the CSV log, which
// is plain text rather than JSON).
func (s *Store) LoadRaw(key string) (string, bool) {
	var rec Record
	if err := s.db.First(&rec, "key = ?", key).Error; err != nil {
		return "", false
	}
	return rec.Value, true
}

// SaveRaw stores a plain-text value under key.
func (s *Store) SaveRaw(key, value string) error {
	rec := Record{Key: key, Value: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Reset removes every owned key. Used by the full data reset only.
func (s *Store) Reset() error {
	return s.db.Where("key IN ?", Keys).Delete(&Record{}).Error
}
