package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pushp314/prompttutor-backend/internal/models"
)

func TestRecordSubmission_RollingStats(t *testing.T) {
	a := New()

	a.RecordSubmission("u1", "ada", "Europe", 60, models.PromptTypeCoding)
	entry := a.RecordSubmission("u1", "ada", "Europe", 90, models.PromptTypeChatbot)

	assert.Equal(t, 2, entry.Stats.PromptsSubmitted)
	assert.InDelta(t, 75.0, entry.Stats.AverageScore, 1e-9)
	assert.Equal(t, 90, entry.Scores.Highest)
	assert.Equal(t, 150, entry.Scores.Total)
	assert.Equal(t, 60, entry.Scores.ByType[models.PromptTypeCoding])
	assert.Equal(t, 90, entry.Scores.ByType[models.PromptTypeChatbot])
	assert.False(t, entry.Stats.LastUpdated.IsZero())
}

func TestRecordSubmission_FirstSightCreatesEntry(t *testing.T) {
	a := New()

	entry := a.RecordSubmission("u1", "ada", "Europe", 70, models.PromptTypeCoding)
	assert.Equal(t, 1, entry.ID)
	assert.Equal(t, "ada", entry.Username)
	assert.Zero(t, entry.Stats.ImprovementRate, "single submission has no improvement rate")

	other := a.RecordSubmission("u2", "grace", "Asia", 80, models.PromptTypeImage)
	assert.Equal(t, 2, other.ID)
}

func TestImprovementRate_MeanOfRecentDeltas(t *testing.T) {
	a := New()

	for _, s := range []int{50, 60, 70} {
		a.RecordSubmission("u1", "ada", "Europe", s, models.PromptTypeCoding)
	}
	entry, _ := a.Entry("u1")
	assert.InDelta(t, 10.0, entry.Stats.ImprovementRate, 1e-9)

	// Window keeps only the last 5 scores: old low scores roll out
	for _, s := range []int{80, 90, 100, 100, 100} {
		a.RecordSubmission("u1", "ada", "Europe", s, models.PromptTypeCoding)
	}
	entry, _ = a.Entry("u1")
	// recent window [80 90 100 100 100]: deltas 10,10,0,0 -> 5
	assert.InDelta(t, 5.0, entry.Stats.ImprovementRate, 1e-9)
}

func TestGetEntries_FilterAndSort(t *testing.T) {
	a := New()
	a.RecordSubmission("u1", "ada", "Europe", 95, models.PromptTypeCoding)
	a.RecordSubmission("u2", "grace", "Asia", 70, models.PromptTypeCoding)
	a.RecordSubmission("u3", "linus", "Europe", 85, models.PromptTypeImage)

	// Default sort: highest score descending
	all := a.GetEntries(QueryOptions{})
	assert.Len(t, all, 3)
	assert.Equal(t, "u1", all[0].UserID)
	assert.Equal(t, "u3", all[1].UserID)

	europe := a.GetEntries(QueryOptions{Continent: "Europe"})
	assert.Len(t, europe, 2)

	coding := a.GetEntries(QueryOptions{Type: models.PromptTypeCoding})
	assert.Len(t, coding, 2)

	limited := a.GetEntries(QueryOptions{Limit: 1})
	assert.Len(t, limited, 1)
	assert.Equal(t, "u1", limited[0].UserID)
}

func TestGetEntries_SortByBadges(t *testing.T) {
	a := New()
	a.RecordSubmission("u1", "ada", "Europe", 95, models.PromptTypeCoding)
	a.RecordSubmission("u2", "grace", "Asia", 70, models.PromptTypeCoding)
	a.UpdateBadges("u2", []models.Badge{
		{ID: "b1", Category: models.BadgeCategoryQuality},
		{ID: "b2", Category: models.BadgeCategoryQuality},
	})

	got := a.GetEntries(QueryOptions{SortBy: SortByBadges})
	assert.Equal(t, "u2", got[0].UserID)
	assert.Equal(t, 2, got[0].Badges.Total)
	assert.Equal(t, 2, got[0].Badges.ByCategory[models.BadgeCategoryQuality])
}

func TestGetEntries_ReturnsCopies(t *testing.T) {
	a := New()
	a.RecordSubmission("u1", "ada", "Europe", 95, models.PromptTypeCoding)

	got := a.GetEntries(QueryOptions{})
	got[0].Username = "mallory"

	entry, _ := a.Entry("u1")
	assert.Equal(t, "ada", entry.Username)
}

func TestGetRank(t *testing.T) {
	a := New()
	a.RecordSubmission("u1", "ada", "Europe", 95, models.PromptTypeCoding)
	a.RecordSubmission("u2", "grace", "Asia", 70, models.PromptTypeCoding)

	assert.Equal(t, 1, a.GetRank("u1", QueryOptions{}))
	assert.Equal(t, 2, a.GetRank("u2", QueryOptions{}))
	assert.Equal(t, 0, a.GetRank("nobody", QueryOptions{}))

	// Filters change the pool: within Asia, u2 ranks first
	assert.Equal(t, 1, a.GetRank("u2", QueryOptions{Continent: "Asia"}))
}

func TestContinentStats_AllContinentsPresent(t *testing.T) {
	a := New()
	a.RecordSubmission("u1", "ada", "Europe", 90, models.PromptTypeCoding)
	a.RecordSubmission("u2", "grace", "Europe", 70, models.PromptTypeCoding)

	stats := a.ContinentStats()
	for _, c := range models.Continents {
		assert.Contains(t, stats, c)
	}

	europe := stats["Europe"]
	assert.Equal(t, 2, europe.TotalUsers)
	assert.Equal(t, 2, europe.TotalPrompts)
	assert.InDelta(t, 80.0, europe.AverageScore, 1e-9)
	assert.NotNil(t, europe.TopScorer)
	assert.Equal(t, "u1", europe.TopScorer.UserID)

	// Empty continents stay zero-valued
	assert.Equal(t, 0, stats["Oceania"].TotalUsers)
	assert.Nil(t, stats["Oceania"].TopScorer)
}

func TestTypeStats(t *testing.T) {
	a := New()
	a.RecordSubmission("u1", "ada", "Europe", 80, models.PromptTypeCoding)
	a.RecordSubmission("u1", "ada", "Europe", 60, models.PromptTypeCoding)
	a.RecordSubmission("u2", "grace", "Asia", 90, models.PromptTypeImage)
	a.RecordSubmission("u3", "linus", "Europe", 75, models.PromptTypeCoding)

	stats := a.TypeStats()
	coding := stats.ByType[models.PromptTypeCoding]
	assert.Equal(t, 215, coding.TotalScore)
	assert.Equal(t, 2, coding.Users)
	assert.Equal(t, models.PromptTypeCoding, stats.MostCommon)
}

func TestExportImport_RoundTrip(t *testing.T) {
	a := New()
	a.RecordSubmission("u1", "ada", "Europe", 60, models.PromptTypeCoding)
	a.RecordSubmission("u1", "ada", "Europe", 90, models.PromptTypeCoding)
	a.RecordSubmission("u2", "grace", "Asia", 70, models.PromptTypeImage)
	snap := a.Export()

	restored := New()
	restored.Import(snap)

	entry, ok := restored.Entry("u1")
	assert.True(t, ok)
	assert.Equal(t, 2, entry.Stats.PromptsSubmitted)

	// Recent windows survive, so the improvement rate keeps evolving
	restored.RecordSubmission("u1", "ada", "Europe", 100, models.PromptTypeCoding)
	entry, _ = restored.Entry("u1")
	// window [60 90 100]: deltas 30,10 -> 20
	assert.InDelta(t, 20.0, entry.Stats.ImprovementRate, 1e-9)

	// New users continue from the imported id counter
	next := restored.RecordSubmission("u3", "linus", "Europe", 50, models.PromptTypeCoding)
	assert.Equal(t, 3, next.ID)
}

func TestReset(t *testing.T) {
	a := New()
	a.RecordSubmission("u1", "ada", "Europe", 60, models.PromptTypeCoding)
	a.Reset()

	assert.Empty(t, a.GetEntries(QueryOptions{}))
	entry := a.RecordSubmission("u2", "grace", "Asia", 70, models.PromptTypeImage)
	assert.Equal(t, 1, entry.ID)
}
