package models

import "time"

// ScoreStats is the rolling score aggregate for one user.
type ScoreStats struct {
	Total   int                `json:"total"`
	Count   int                `json:"count"`
	ByType  map[PromptType]int `json:"byType"`
	Highest int                `json:"highest"`
}

// BadgeSummary mirrors the user's unlocked badges into the leaderboard
// entry so badge-sorted queries need no badge engine access.
type BadgeSummary struct {
	Total      int                   `json:"total"`
	ByCategory map[BadgeCategory]int `json:"byCategory"`
}

type EntryStats struct {
	PromptsSubmitted int       `json:"promptsSubmitted"`
	AverageScore     float64   `json:"averageScore"`
	ImprovementRate  float64   `json:"improvementRate"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// LeaderboardEntry is one user's rolling aggregate. Exactly one entry
// exists per user id; AverageScore is always Total/Count and Highest
// never decreases.
type LeaderboardEntry struct {
	ID        int          `json:"id"`
	UserID    string       `json:"userId"`
	Username  string       `json:"username"`
	Continent string       `json:"continent"`
	Scores    ScoreStats   `json:"scores"`
	Badges    BadgeSummary `json:"badges"`
	Stats     EntryStats   `json:"stats"`
}

// LeaderboardSnapshot persists the aggregator. RecentScores keeps the
// true last few per-submission scores per user for the improvement
// rate, rather than reconstructing them from the running average.
type LeaderboardSnapshot struct {
	Entries      []*LeaderboardEntry `json:"entries"`
	RecentScores map[string][]int    `json:"recentScores"`
	NextID       int                 `json:"nextId"`
}

// ContinentStats is the per-continent rollup.
type ContinentStats struct {
	TotalUsers   int               `json:"totalUsers"`
	AverageScore float64           `json:"averageScore"`
	TotalPrompts int               `json:"totalPrompts"`
	TopScorer    *LeaderboardEntry `json:"topScorer"`
	MostImproved *LeaderboardEntry `json:"mostImproved"`
}

// TypeStatsEntry aggregates one prompt type across all users.
type TypeStatsEntry struct {
	Count      int     `json:"count"`
	TotalScore int     `json:"totalScore"`
	Average    float64 `json:"average"`
	Users      int     `json:"users"`
}

type TypeStats struct {
	Total      int                           `json:"total"`
	ByType     map[PromptType]TypeStatsEntry `json:"byType"`
	MostCommon PromptType                    `json:"mostCommon"`
}
