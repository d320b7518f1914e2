package models

import "time"

type PromptType string

const (
	PromptTypeChatbot  PromptType = "Chatbot"
	PromptTypeCoding   PromptType = "Coding"
	PromptTypeImage    PromptType = "Image"
	PromptTypeResearch PromptType = "Research"
	PromptTypeUnknown  PromptType = "Unknown"
)

// PromptTypes lists the four reviewable use cases, in display order.
var PromptTypes = []PromptType{
	PromptTypeChatbot,
	PromptTypeCoding,
	PromptTypeImage,
	PromptTypeResearch,
}

// Continent values accepted on submissions.
const (
	ContinentNorthAmerica = "North America"
	ContinentSouthAmerica = "South America"
	ContinentEurope       = "Europe"
	ContinentAfrica       = "Africa"
	ContinentAsia         = "Asia"
	ContinentOceania      = "Oceania"
)

var Continents = []string{
	ContinentNorthAmerica,
	ContinentSouthAmerica,
	ContinentEurope,
	ContinentAfrica,
	ContinentAsia,
	ContinentOceania,
}

// SubmissionEvent is one rubric-scored prompt submission. Events are
// immutable once appended to the history log; timestamps are
// milliseconds since epoch to stay compatible with previously exported
// data.
type SubmissionEvent struct {
	Prompt    string         `json:"prompt"`
	Type      PromptType     `json:"type"`
	Score     int            `json:"score"`
	Criteria  map[string]int `json:"criteria"`
	Styles    []string       `json:"styles"`
	Timestamp int64          `json:"timestamp"`
	Username  string         `json:"username,omitempty"`
	Contact   string         `json:"contact,omitempty"`
	Continent string         `json:"continent,omitempty"`
}

// Time returns the submission instant in the local time zone. Temporal
// badge predicates (hour of day, day of week, distinct days) are
// defined against the submitter's local clock.
func (e SubmissionEvent) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// ReviewResult is the scoring collaborator's output for one prompt.
type ReviewResult struct {
	Prompt         string         `json:"prompt"`
	Type           PromptType     `json:"type"`
	Score          int            `json:"score"`
	Criteria       map[string]int `json:"criteria"`
	Suggestions    []string       `json:"suggestions"`
	ImprovedPrompt string         `json:"improvedPrompt"`
	Topics         []string       `json:"topics"`
	Entities       []string       `json:"entities"`
	Styles         []string       `json:"styles"`
}
