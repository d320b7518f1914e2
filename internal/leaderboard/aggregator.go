package leaderboard

import (
	"sort"
	"time"

	"github.com/pushp314/prompttutor-backend/internal/models"
)

// recentWindow is how many of the user's latest scores feed the
// improvement rate.
const recentWindow = 5

// SortKey selects the leaderboard ordering. All keys sort descending;
// ties keep insertion order.
type SortKey string

const (
	SortByScore       SortKey = "score"
	SortByAverage     SortKey = "average"
	SortByImprovement SortKey = "improvement"
	SortByBadges      SortKey = "badges"
)

// QueryOptions filters and orders a leaderboard query.
type QueryOptions struct {
	Continent string
	Type      models.PromptType
	SortBy    SortKey
	Limit     int
}

// Aggregator maintains one rolling statistics entry per user. The
// improvement rate is derived from the user's true recent submission
// scores, kept in a bounded window per user.
type Aggregator struct {
	entries []*models.LeaderboardEntry
	byUser  map[string]*models.LeaderboardEntry
	recent  map[string][]int
	nextID  int
	now     func() time.Time
}

func New() *Aggregator {
	return &Aggregator{
		byUser: map[string]*models.LeaderboardEntry{},
		recent: map[string][]int{},
		nextID: 1,
		now:    time.Now,
	}
}

// RecordSubmission folds one scored submission into the user's entry,
// creating it on first sight. Average is recomputed as total/count so
// it can never drift; highest is a running maximum.
func (a *Aggregator) RecordSubmission(userID, username, continent string, score int, promptType models.PromptType) *models.LeaderboardEntry {
	entry, ok := a.byUser[userID]
	if !ok {
		entry = &models.LeaderboardEntry{
			ID:        a.nextID,
			UserID:    userID,
			Username:  username,
			Continent: continent,
			Scores: models.ScoreStats{
				ByType: map[models.PromptType]int{},
			},
			Badges: models.BadgeSummary{
				ByCategory: map[models.BadgeCategory]int{},
			},
		}
		a.nextID++
		a.entries = append(a.entries, entry)
		a.byUser[userID] = entry
	}

	entry.Scores.Total += score
	entry.Scores.Count++
	entry.Scores.ByType[promptType] += score
	if score > entry.Scores.Highest {
		entry.Scores.Highest = score
	}

	recent := append(a.recent[userID], score)
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	a.recent[userID] = recent

	entry.Stats.PromptsSubmitted++
	entry.Stats.AverageScore = float64(entry.Scores.Total) / float64(entry.Scores.Count)
	entry.Stats.LastUpdated = a.now()

	if entry.Stats.PromptsSubmitted > 1 {
		entry.Stats.ImprovementRate = improvementRate(recent)
	}

	return entry
}

// improvementRate is the mean of the consecutive score deltas over the
// recent window.
func improvementRate(scores []int) float64 {
	if len(scores) < 2 {
		return 0
	}
	sum := 0
	for i := 1; i < len(scores); i++ {
		sum += scores[i] - scores[i-1]
	}
	return float64(sum) / float64(len(scores)-1)
}

// UpdateBadges mirrors a user's unlocked badges into their entry.
func (a *Aggregator) UpdateBadges(userID string, badges []models.Badge) {
	entry, ok := a.byUser[userID]
	if !ok {
		return
	}

	entry.Badges.Total = len(badges)
	byCategory := map[models.BadgeCategory]int{}
	for _, b := range badges {
		byCategory[b.Category]++
	}
	entry.Badges.ByCategory = byCategory
}

// GetEntries returns the filtered, sorted leaderboard. Sorting is
// stable: tied entries stay in insertion order.
func (a *Aggregator) GetEntries(opts QueryOptions) []models.LeaderboardEntry {
	var filtered []*models.LeaderboardEntry
	for _, e := range a.entries {
		if opts.Continent != "" && e.Continent != opts.Continent {
			continue
		}
		if opts.Type != "" && e.Scores.ByType[opts.Type] <= 0 {
			continue
		}
		filtered = append(filtered, e)
	}

	key := opts.SortBy
	if key == "" {
		key = SortByScore
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		switch key {
		case SortByAverage:
			return filtered[i].Stats.AverageScore > filtered[j].Stats.AverageScore
		case SortByImprovement:
			return filtered[i].Stats.ImprovementRate > filtered[j].Stats.ImprovementRate
		case SortByBadges:
			return filtered[i].Badges.Total > filtered[j].Badges.Total
		default:
			return filtered[i].Scores.Highest > filtered[j].Scores.Highest
		}
	})

	if opts.Limit > 0 && len(filtered) > opts.Limit {
		filtered = filtered[:opts.Limit]
	}

	out := make([]models.LeaderboardEntry, len(filtered))
	for i, e := range filtered {
		out[i] = *e
	}
	return out
}

// GetRank returns the user's 1-based position within the filtered,
// sorted result, or 0 when the user is absent.
func (a *Aggregator) GetRank(userID string, opts QueryOptions) int {
	for i, e := range a.GetEntries(opts) {
		if e.UserID == userID {
			return i + 1
		}
	}
	return 0
}

// Entry returns the user's entry, if present.
func (a *Aggregator) Entry(userID string) (models.LeaderboardEntry, bool) {
	e, ok := a.byUser[userID]
	if !ok {
		return models.LeaderboardEntry{}, false
	}
	return *e, true
}

// ContinentStats rolls up every known continent: user count, running
// average (incremental mean), total submissions, current top scorer
// and most improved.
func (a *Aggregator) ContinentStats() map[string]*models.ContinentStats {
	stats := map[string]*models.ContinentStats{}
	for _, c := range models.Continents {
		stats[c] = &models.ContinentStats{}
	}

	for _, e := range a.entries {
		cs, ok := stats[e.Continent]
		if !ok {
			cs = &models.ContinentStats{}
			stats[e.Continent] = cs
		}

		cs.TotalUsers++
		cs.TotalPrompts += e.Stats.PromptsSubmitted
		cs.AverageScore = (cs.AverageScore*float64(cs.TotalUsers-1) + e.Stats.AverageScore) / float64(cs.TotalUsers)

		if cs.TopScorer == nil || e.Scores.Highest > cs.TopScorer.Scores.Highest {
			copied := *e
			cs.TopScorer = &copied
		}
		if cs.MostImproved == nil || e.Stats.ImprovementRate > cs.MostImproved.Stats.ImprovementRate {
			copied := *e
			cs.MostImproved = &copied
		}
	}

	return stats
}

// TypeStats rolls up per-type submission totals across all users.
func (a *Aggregator) TypeStats() models.TypeStats {
	byType := map[models.PromptType]models.TypeStatsEntry{}
	users := map[models.PromptType]map[string]struct{}{}
	total := 0

	for _, e := range a.entries {
		for t, score := range e.Scores.ByType {
			ts := byType[t]
			ts.Count++
			ts.TotalScore += score
			byType[t] = ts

			if users[t] == nil {
				users[t] = map[string]struct{}{}
			}
			users[t][e.UserID] = struct{}{}
			total++
		}
	}

	var mostCommon models.PromptType
	maxCount := 0
	for t, ts := range byType {
		ts.Average = float64(ts.TotalScore) / float64(ts.Count)
		ts.Users = len(users[t])
		byType[t] = ts
		if ts.Count > maxCount {
			maxCount = ts.Count
			mostCommon = t
		}
	}

	return models.TypeStats{Total: total, ByType: byType, MostCommon: mostCommon}
}

// Export snapshots the aggregator for persistence.
func (a *Aggregator) Export() models.LeaderboardSnapshot {
	entries := make([]*models.LeaderboardEntry, len(a.entries))
	copy(entries, a.entries)
	recent := make(map[string][]int, len(a.recent))
	for k, v := range a.recent {
		recent[k] = append([]int(nil), v...)
	}
	return models.LeaderboardSnapshot{
		Entries:      entries,
		RecentScores: recent,
		NextID:       a.nextID,
	}
}

// Import replaces the aggregator state from a snapshot.
func (a *Aggregator) Import(snap models.LeaderboardSnapshot) {
	a.entries = nil
	a.byUser = map[string]*models.LeaderboardEntry{}
	a.recent = map[string][]int{}
	a.nextID = snap.NextID
	if a.nextID < 1 {
		a.nextID = 1
	}

	for _, e := range snap.Entries {
		if e == nil {
			continue
		}
		if e.Scores.ByType == nil {
			e.Scores.ByType = map[models.PromptType]int{}
		}
		if e.Badges.ByCategory == nil {
			e.Badges.ByCategory = map[models.BadgeCategory]int{}
		}
		a.entries = append(a.entries, e)
		a.byUser[e.UserID] = e
		if e.ID >= a.nextID {
			a.nextID = e.ID + 1
		}
	}
	for k, v := range snap.RecentScores {
		a.recent[k] = v
	}
}

// Reset drops all entries.
func (a *Aggregator) Reset() {
	a.Import(models.LeaderboardSnapshot{})
}
