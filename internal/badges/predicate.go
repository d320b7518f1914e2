package badges

import (
	"regexp"
	"strings"
	"time"

	"github.com/pushp314/prompttutor-backend/internal/models"
)

// Predicate is a pure boolean condition over the chronological history
// log. Implementations are data-carrying kinds rather than ad-hoc
// closures so the progress query can dispatch on kind.
type Predicate interface {
	Satisfied(history []models.SubmissionEvent) bool
}

// metaPredicate is the one predicate kind that also reads the engine's
// own unlocked-badge count. The engine evaluates these after the main
// catalog pass, against the just-updated count.
type metaPredicate interface {
	SatisfiedMeta(history []models.SubmissionEvent, unlockedCount int) bool
}

// progresser is implemented by the count-style kinds that expose
// partial progress. Kinds without a meaningful counter simply do not
// implement it and the progress query reports nil.
type progresser interface {
	Progress(history []models.SubmissionEvent) models.BadgeProgress
}

// criterionPerfect: at least Count entries rated 5/5 on Criterion.
type criterionPerfect struct {
	Criterion string
	Count     int
}

func (p criterionPerfect) Satisfied(history []models.SubmissionEvent) bool {
	return p.count(history) >= p.Count
}

func (p criterionPerfect) Progress(history []models.SubmissionEvent) models.BadgeProgress {
	return models.BadgeProgress{Current: p.count(history), Target: p.Count}
}

func (p criterionPerfect) count(history []models.SubmissionEvent) int {
	n := 0
	for _, e := range history {
		if e.Criteria[p.Criterion] == 5 {
			n++
		}
	}
	return n
}

// typeHighScore: at least Count entries of Type scoring >= MinScore.
type typeHighScore struct {
	Type     models.PromptType
	MinScore int
	Count    int
}

func (p typeHighScore) Satisfied(history []models.SubmissionEvent) bool {
	return p.count(history) >= p.Count
}

func (p typeHighScore) Progress(history []models.SubmissionEvent) models.BadgeProgress {
	return models.BadgeProgress{Current: p.count(history), Target: p.Count}
}

func (p typeHighScore) count(history []models.SubmissionEvent) int {
	n := 0
	for _, e := range history {
		if e.Type == p.Type && e.Score >= p.MinScore {
			n++
		}
	}
	return n
}

// perfectScore: some entry scored exactly 100.
type perfectScore struct{}

func (perfectScore) Satisfied(history []models.SubmissionEvent) bool {
	for _, e := range history {
		if e.Score == 100 {
			return true
		}
	}
	return false
}

func (p perfectScore) Progress(history []models.SubmissionEvent) models.BadgeProgress {
	if p.Satisfied(history) {
		return models.BadgeProgress{Current: 1, Target: 1}
	}
	return models.BadgeProgress{Current: 0, Target: 1}
}

// windowedExcellence: the last N entries all scored >= MinScore.
// False by definition with fewer than N entries.
type windowedExcellence struct {
	N        int
	MinScore int
}

func (p windowedExcellence) Satisfied(history []models.SubmissionEvent) bool {
	if len(history) < p.N {
		return false
	}
	for _, e := range history[len(history)-p.N:] {
		if e.Score < p.MinScore {
			return false
		}
	}
	return true
}

func (p windowedExcellence) Progress(history []models.SubmissionEvent) models.BadgeProgress {
	if len(history) < p.N {
		return models.BadgeProgress{Current: 0, Target: p.N}
	}
	n := 0
	for _, e := range history[len(history)-p.N:] {
		if e.Score >= p.MinScore {
			n++
		}
	}
	return models.BadgeProgress{Current: n, Target: p.N}
}

// pairImprovement: the latest entry improved on the previous one by at
// least Delta points.
type pairImprovement struct {
	Delta int
}

func (p pairImprovement) Satisfied(history []models.SubmissionEvent) bool {
	if len(history) < 2 {
		return false
	}
	last, prev := history[len(history)-1], history[len(history)-2]
	return last.Score-prev.Score >= p.Delta
}

func (p pairImprovement) Progress(history []models.SubmissionEvent) models.BadgeProgress {
	if p.Satisfied(history) {
		return models.BadgeProgress{Current: 1, Target: 1}
	}
	return models.BadgeProgress{Current: 0, Target: 1}
}

// styleCount: at least Count entries carrying the style tag.
type styleCount struct {
	Style string
	Count int
}

func (p styleCount) Satisfied(history []models.SubmissionEvent) bool {
	return p.count(history) >= p.Count
}

func (p styleCount) Progress(history []models.SubmissionEvent) models.BadgeProgress {
	return models.BadgeProgress{Current: p.count(history), Target: p.Count}
}

func (p styleCount) count(history []models.SubmissionEvent) int {
	n := 0
	for _, e := range history {
		for _, s := range e.Styles {
			if s == p.Style {
				n++
				break
			}
		}
	}
	return n
}

// submissionCount: the log holds at least Count entries.
type submissionCount struct {
	Count int
}

func (p submissionCount) Satisfied(history []models.SubmissionEvent) bool {
	return len(history) >= p.Count
}

// typeDiversity: every one of the four prompt types appears at least
// MinEach times.
type typeDiversity struct {
	MinEach int
}

func (p typeDiversity) Satisfied(history []models.SubmissionEvent) bool {
	counts := map[models.PromptType]int{}
	for _, e := range history {
		counts[e.Type]++
	}
	for _, t := range models.PromptTypes {
		if counts[t] < p.MinEach {
			return false
		}
	}
	return true
}

// increasingStreak: a run of at least Length chronologically
// consecutive entries with strictly increasing score. The scan walks
// backward from the end; a non-improving pair resets the running
// counter to 1, so a single flat entry still starts a new candidate
// run.
type increasingStreak struct {
	Length int
}

func (p increasingStreak) Satisfied(history []models.SubmissionEvent) bool {
	if len(history) < p.Length {
		return false
	}
	streak := 1
	for i := len(history) - 2; i >= 0; i-- {
		if history[i+1].Score > history[i].Score {
			streak++
		} else {
			streak = 1
		}
		if streak >= p.Length {
			return true
		}
	}
	return false
}

// promptContains: some prompt contains the literal marker.
type promptContains struct {
	Literal string
}

func (p promptContains) Satisfied(history []models.SubmissionEvent) bool {
	for _, e := range history {
		if strings.Contains(e.Prompt, p.Literal) {
			return true
		}
	}
	return false
}

// prefixRepetition: the same prompt prefix (first PrefixLen characters)
// appears in at least Count entries.
type prefixRepetition struct {
	PrefixLen int
	Count     int
}

func (p prefixRepetition) Satisfied(history []models.SubmissionEvent) bool {
	counts := map[string]int{}
	for _, e := range history {
		prefix := e.Prompt
		if r := []rune(prefix); len(r) > p.PrefixLen {
			prefix = string(r[:p.PrefixLen])
		}
		counts[prefix]++
		if counts[prefix] >= p.Count {
			return true
		}
	}
	return false
}

// hourRange: some entry was submitted in [From, To) local hours.
type hourRange struct {
	From, To int
}

func (p hourRange) Satisfied(history []models.SubmissionEvent) bool {
	for _, e := range history {
		h := e.Time().Hour()
		if h >= p.From && h < p.To {
			return true
		}
	}
	return false
}

// weekendDay: some entry was submitted on a Saturday or Sunday.
type weekendDay struct{}

func (weekendDay) Satisfied(history []models.SubmissionEvent) bool {
	for _, e := range history {
		wd := e.Time().Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			return true
		}
	}
	return false
}

// distinctDays: entries span at least Days distinct local calendar
// days. MinEntries guards the streak variant, which also requires that
// many submissions.
type distinctDays struct {
	Days       int
	MinEntries int
}

func (p distinctDays) Satisfied(history []models.SubmissionEvent) bool {
	if len(history) < p.MinEntries {
		return false
	}
	days := map[string]struct{}{}
	for _, e := range history {
		days[e.Time().Format("2006-01-02")] = struct{}{}
	}
	return len(days) >= p.Days
}

// contactProvided: some entry carries a non-empty contact.
type contactProvided struct{}

func (contactProvided) Satisfied(history []models.SubmissionEvent) bool {
	for _, e := range history {
		if e.Contact != "" {
			return true
		}
	}
	return false
}

// continentSpread: entries come from at least Count distinct
// continents.
type continentSpread struct {
	Count int
}

func (p continentSpread) Satisfied(history []models.SubmissionEvent) bool {
	seen := map[string]struct{}{}
	for _, e := range history {
		if e.Continent != "" {
			seen[e.Continent] = struct{}{}
		}
	}
	return len(seen) >= p.Count
}

// lexicalMatch: some prompt matches the pattern. Patterns are compiled
// once at catalog construction so a bad pattern fails loudly at start,
// not during evaluation.
type lexicalMatch struct {
	Pattern *regexp.Regexp
}

func (p lexicalMatch) Satisfied(history []models.SubmissionEvent) bool {
	for _, e := range history {
		if e.Prompt != "" && p.Pattern.MatchString(e.Prompt) {
			return true
		}
	}
	return false
}

// lexicalMatchCount: at least Count prompts match the pattern.
type lexicalMatchCount struct {
	Pattern *regexp.Regexp
	Count   int
}

func (p lexicalMatchCount) Satisfied(history []models.SubmissionEvent) bool {
	return p.count(history) >= p.Count
}

func (p lexicalMatchCount) Progress(history []models.SubmissionEvent) models.BadgeProgress {
	return models.BadgeProgress{Current: p.count(history), Target: p.Count}
}

func (p lexicalMatchCount) count(history []models.SubmissionEvent) int {
	n := 0
	for _, e := range history {
		if e.Prompt != "" && p.Pattern.MatchString(e.Prompt) {
			n++
		}
	}
	return n
}

// promptLength: some prompt shorter than Max runes (Max > 0) or longer
// than Min runes (Min > 0).
type promptLength struct {
	Max int
	Min int
}

func (p promptLength) Satisfied(history []models.SubmissionEvent) bool {
	for _, e := range history {
		if e.Prompt == "" {
			continue
		}
		n := len([]rune(e.Prompt))
		if p.Max > 0 && n < p.Max {
			return true
		}
		if p.Min > 0 && n > p.Min {
			return true
		}
	}
	return false
}

// emojiRun: some single prompt contains at least Min emoji runes.
type emojiRun struct {
	Min int
}

func (p emojiRun) Satisfied(history []models.SubmissionEvent) bool {
	for _, e := range history {
		if countEmoji(e.Prompt) >= p.Min {
			return true
		}
	}
	return false
}

// countEmoji counts runes in the common emoji blocks. RE2 has no
// \p{Emoji} class, so the blocks are enumerated.
func countEmoji(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case r >= 0x1F300 && r <= 0x1F5FF, // symbols & pictographs
			r >= 0x1F600 && r <= 0x1F64F, // emoticons
			r >= 0x1F680 && r <= 0x1F6FF, // transport & map
			r >= 0x1F900 && r <= 0x1F9FF, // supplemental symbols
			r >= 0x1FA70 && r <= 0x1FAFF, // symbols extended-A
			r >= 0x2600 && r <= 0x26FF,   // miscellaneous symbols
			r >= 0x2700 && r <= 0x27BF:   // dingbats
			n++
		}
	}
	return n
}

// scoreJump: two consecutive entries with different prompt text where
// the later one improved by at least Delta points.
type scoreJump struct {
	Delta int
}

func (p scoreJump) Satisfied(history []models.SubmissionEvent) bool {
	for i := 1; i < len(history); i++ {
		cur, prev := history[i], history[i-1]
		if cur.Prompt != "" && prev.Prompt != "" &&
			cur.Prompt != prev.Prompt &&
			cur.Score-prev.Score >= p.Delta {
			return true
		}
	}
	return false
}

// historySpan: elapsed time between earliest and latest entry is at
// least Days days.
type historySpan struct {
	Days int
}

func (p historySpan) Satisfied(history []models.SubmissionEvent) bool {
	if len(history) < 2 {
		return false
	}
	first, last := history[0].Timestamp, history[0].Timestamp
	for _, e := range history[1:] {
		if e.Timestamp < first {
			first = e.Timestamp
		}
		if e.Timestamp > last {
			last = e.Timestamp
		}
	}
	return last-first >= int64(p.Days)*24*int64(time.Hour/time.Millisecond)
}

// unlockedCountAtLeast: the meta badge, satisfied once the engine has
// unlocked at least Count other badges.
type unlockedCountAtLeast struct {
	Count int
}

func (unlockedCountAtLeast) Satisfied([]models.SubmissionEvent) bool {
	// Never satisfiable from history alone; the engine routes meta
	// kinds through SatisfiedMeta.
	return false
}

func (p unlockedCountAtLeast) SatisfiedMeta(_ []models.SubmissionEvent, unlockedCount int) bool {
	return unlockedCount >= p.Count
}
