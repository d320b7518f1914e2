package models

import "encoding/json"

type BadgeCategory string

const (
	BadgeCategoryQuality     BadgeCategory = "Quality"
	BadgeCategoryUseCase     BadgeCategory = "Use Case"
	BadgeCategoryAchievement BadgeCategory = "Achievement"
	BadgeCategoryStyle       BadgeCategory = "Style"
	BadgeCategoryMilestone   BadgeCategory = "Milestone"
	BadgeCategoryConsistency BadgeCategory = "Consistency"
	BadgeCategoryDiversity   BadgeCategory = "Diversity"
	BadgeCategoryGrowth      BadgeCategory = "Growth"
	BadgeCategoryCommunity   BadgeCategory = "Community"
	BadgeCategoryCreativity  BadgeCategory = "Creativity"
	BadgeCategoryMastery     BadgeCategory = "Mastery"
)

// Badge is one achievement definition. The unlock condition itself
// lives in the badges package as a typed predicate; this is the
// displayable part.
type Badge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Category    BadgeCategory `json:"category"`
}

// BadgeProgress reports partial progress toward a count-style badge.
type BadgeProgress struct {
	Current int `json:"current"`
	Target  int `json:"target"`
}

// UnlockedBadgeRecord maps badge id to unlock instant (ms epoch).
// Earlier releases persisted a bare array of ids; UnmarshalJSON accepts
// both so old profiles keep their badges (with a zero unlock time).
type UnlockedBadgeRecord map[string]int64

func (r *UnlockedBadgeRecord) UnmarshalJSON(data []byte) error {
	var asMap map[string]int64
	if err := json.Unmarshal(data, &asMap); err == nil {
		if asMap == nil {
			asMap = map[string]int64{}
		}
		*r = asMap
		return nil
	}

	var asList []string
	if err := json.Unmarshal(data, &asList); err != nil {
		return err
	}
	out := make(map[string]int64, len(asList))
	for _, id := range asList {
		out[id] = 0
	}
	*r = out
	return nil
}
