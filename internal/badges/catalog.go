package badges

import (
	"regexp"

	"github.com/pushp314/prompttutor-backend/internal/models"
)

// Definition pairs a displayable badge with its unlock predicate.
type Definition struct {
	models.Badge
	Predicate Predicate
}

// Lexical badge patterns, kept in one place so each can be unit-tested
// against literal prompt strings.
var (
	reCollaborator = regexp.MustCompile(`(?i)(\bwe\b|\bour\b)`)
	rePersona      = regexp.MustCompile(`(?i)as an? [a-z ]+`)
	reQuestionEnd  = regexp.MustCompile(`\?\s*$`)
	reOutputSpec   = regexp.MustCompile(`(?i)(output|format|as a|in the form of)`)
	reTeacher      = regexp.MustCompile(`(?i)(explain|teach|instruct)`)
	reChallenger   = regexp.MustCompile(`(?i)(critique|challenge|argue|debate)`)
	reStoryteller  = regexp.MustCompile(`(?i)(story|narrative|tale|once upon a time)`)
	reVisualizer   = regexp.MustCompile(`(?i)(draw|image|visual|picture|diagram)`)
	reResearcher   = regexp.MustCompile(`(?i)(research|reference|cite|source)`)
	reSummarizer   = regexp.MustCompile(`(?i)(summarize|summary|tl;dr|recap)`)
	reTranslator   = regexp.MustCompile(`(?i)(translate|translation|in [a-z]+)`)
	reDebugger     = regexp.MustCompile(`(?i)(debug|fix|review|error)`)
	reOptimizer    = regexp.MustCompile(`(?i)(optimize|improve|make better|enhance)`)
	reAnalyzer     = regexp.MustCompile(`(?i)(analyze|analysis|breakdown|decompose)`)
	reComparator   = regexp.MustCompile(`(?i)(compare|comparison|vs\.|versus)`)
)

// Catalog returns the full badge catalog in declaration order. The
// catalog is static: identifiers are unique and definitions never
// change at runtime. Badge id doubles as display name.
func Catalog() []Definition {
	def := func(id, desc, icon string, cat models.BadgeCategory, p Predicate) Definition {
		return Definition{
			Badge: models.Badge{
				ID:          id,
				Name:        id,
				Description: desc,
				Icon:        icon,
				Category:    cat,
			},
			Predicate: p,
		}
	}

	return []Definition{
		// Prompt quality
		def("Clarity Master", "Achieved a perfect score in Clarity criteria", "🎯",
			models.BadgeCategoryQuality, criterionPerfect{Criterion: "Clarity", Count: 1}),
		def("Specificity Expert", "Achieved a perfect score in Specificity criteria", "🎯",
			models.BadgeCategoryQuality, criterionPerfect{Criterion: "Specificity", Count: 1}),
		def("Structure Pro", "Achieved a perfect score in Structure criteria", "🎯",
			models.BadgeCategoryQuality, criterionPerfect{Criterion: "Structure", Count: 1}),
		def("Completeness Champion", "Achieved a perfect score in Completeness criteria", "🎯",
			models.BadgeCategoryQuality, criterionPerfect{Criterion: "Completeness", Count: 1}),
		def("Complexity Wizard", "Achieved a perfect score in Complexity Management criteria", "🎯",
			models.BadgeCategoryQuality, criterionPerfect{Criterion: "Complexity Management", Count: 1}),

		// Use cases
		def("Chatbot Expert", "Submitted 5 high-quality chatbot prompts", "🤖",
			models.BadgeCategoryUseCase, typeHighScore{Type: models.PromptTypeChatbot, MinScore: 80, Count: 5}),
		def("Code Master", "Submitted 5 high-quality coding prompts", "💻",
			models.BadgeCategoryUseCase, typeHighScore{Type: models.PromptTypeCoding, MinScore: 80, Count: 5}),
		def("Image Artist", "Submitted 5 high-quality image prompts", "🎨",
			models.BadgeCategoryUseCase, typeHighScore{Type: models.PromptTypeImage, MinScore: 80, Count: 5}),
		def("Research Scholar", "Submitted 5 high-quality research prompts", "📚",
			models.BadgeCategoryUseCase, typeHighScore{Type: models.PromptTypeResearch, MinScore: 80, Count: 5}),

		// Achievements
		def("Perfect Score", "Achieved a perfect score (100) on any prompt", "🏆",
			models.BadgeCategoryAchievement, perfectScore{}),
		def("Consistent Excellence", "Achieved scores above 90 for 5 consecutive prompts", "🔥",
			models.BadgeCategoryAchievement, windowedExcellence{N: 5, MinScore: 90}),
		def("Quick Learner", "Improved score by 20 points between consecutive prompts", "📈",
			models.BadgeCategoryAchievement, pairImprovement{Delta: 20}),

		// Styles
		def("Bullet Point Pro", "Used bullet points effectively in 3 prompts", "•",
			models.BadgeCategoryStyle, styleCount{Style: "uses_bullet_points", Count: 3}),
		def("Step-by-Step Master", "Used numbered steps effectively in 3 prompts", "1️⃣",
			models.BadgeCategoryStyle, styleCount{Style: "uses_numbered_steps", Count: 3}),
		def("Role Player", "Specified AI role effectively in 3 prompts", "🎭",
			models.BadgeCategoryStyle, styleCount{Style: "specifies_role", Count: 3}),
		def("Example Expert", "Provided examples effectively in 3 prompts", "💡",
			models.BadgeCategoryStyle, styleCount{Style: "provides_examples", Count: 3}),

		// Milestones and consistency
		def("Prompt Pioneer", "Submitted your very first prompt!", "🚀",
			models.BadgeCategoryMilestone, submissionCount{Count: 1}),
		def("Prompt Marathoner", "Submitted 25 prompts in total", "🏃‍♂️",
			models.BadgeCategoryConsistency, submissionCount{Count: 25}),
		def("Prompt Century", "Submitted 100 prompts in total", "💯",
			models.BadgeCategoryConsistency, submissionCount{Count: 100}),
		def("All-Rounder", "Submitted at least one prompt in every use case", "🧩",
			models.BadgeCategoryDiversity, typeDiversity{MinEach: 1}),
		def("Streak Starter", "Improved your score for 3 prompts in a row", "🔗",
			models.BadgeCategoryConsistency, increasingStreak{Length: 3}),
		def("Streak Master", "Improved your score for 7 prompts in a row", "🏅",
			models.BadgeCategoryConsistency, increasingStreak{Length: 7}),

		// Growth
		def("Feedback Follower", "Submitted a prompt that directly implements a previous suggestion", "🔁",
			models.BadgeCategoryGrowth, promptContains{Literal: "[Emphasize]:"}),
		def("Revisionist", "Submitted 5 improved versions of the same base prompt", "📝",
			models.BadgeCategoryGrowth, prefixRepetition{PrefixLen: 40, Count: 5}),

		// Temporal milestones
		def("Night Owl", "Submitted a prompt between midnight and 5am", "🦉",
			models.BadgeCategoryMilestone, hourRange{From: 0, To: 5}),
		def("Early Bird", "Submitted a prompt between 5am and 8am", "🌅",
			models.BadgeCategoryMilestone, hourRange{From: 5, To: 8}),
		def("Weekend Warrior", "Submitted a prompt on a Saturday or Sunday", "🛡️",
			models.BadgeCategoryMilestone, weekendDay{}),

		// More quality
		def("Detail Detective", "Scored 5/5 in Specificity on any prompt", "🔍",
			models.BadgeCategoryQuality, criterionPerfect{Criterion: "Specificity", Count: 1}),
		def("Structure Sage", "Scored 5/5 in Structure on 3 different prompts", "📐",
			models.BadgeCategoryQuality, criterionPerfect{Criterion: "Structure", Count: 3}),
		def("Completeness Guru", "Scored 5/5 in Completeness on 3 different prompts", "🧘",
			models.BadgeCategoryQuality, criterionPerfect{Criterion: "Completeness", Count: 3}),
		def("Complexity Tamer", "Scored 5/5 in Complexity Management on 3 different prompts", "🦾",
			models.BadgeCategoryQuality, criterionPerfect{Criterion: "Complexity Management", Count: 3}),
		def("Instruction Emphasis Ace", "Scored 5/5 in Instruction Emphasis on any prompt", "📢",
			models.BadgeCategoryQuality, criterionPerfect{Criterion: "Instruction Emphasis", Count: 1}),

		def("Prompt Polisher", "Improved a prompt to increase its score by at least 30 points", "✨",
			models.BadgeCategoryGrowth, scoreJump{Delta: 30}),
		def("Prompt Streaker", "Submitted prompts 7 days in a row", "📅",
			models.BadgeCategoryConsistency, distinctDays{Days: 7, MinEntries: 7}),
		def("Prompt Addict", "Submitted prompts on 30 different days", "🗓️",
			models.BadgeCategoryConsistency, distinctDays{Days: 30}),
		def("Prompt Socialite", "Included a contact (email or LinkedIn) in your profile", "📧",
			models.BadgeCategoryCommunity, contactProvided{}),
		def("Continent Explorer", "Submitted prompts from 3 different continents", "🌍",
			models.BadgeCategoryDiversity, continentSpread{Count: 3}),
		def("Prompt Collaborator", "Used \"we\" or \"our\" in a prompt, showing collaboration", "🤝",
			models.BadgeCategoryCommunity, lexicalMatch{Pattern: reCollaborator}),
		def("Persona Crafter", "Specified a unique AI persona in a prompt", "🦸",
			models.BadgeCategoryCreativity, lexicalMatch{Pattern: rePersona}),
		def("Prompt Minimalist", "Submitted a prompt under 30 characters", "🥷",
			models.BadgeCategoryCreativity, promptLength{Max: 30}),
		def("Prompt Maximalist", "Submitted a prompt over 500 characters", "🦑",
			models.BadgeCategoryCreativity, promptLength{Min: 500}),
		def("Emoji Enthusiast", "Used 3 or more emojis in a single prompt", "😃",
			models.BadgeCategoryCreativity, emojiRun{Min: 3}),
		def("Question Master", "Submitted 10 prompts that end with a question mark", "❓",
			models.BadgeCategoryStyle, lexicalMatchCount{Pattern: reQuestionEnd, Count: 10}),
		def("Output Specifier", "Explicitly specified the desired output format in a prompt", "📄",
			models.BadgeCategoryStyle, lexicalMatch{Pattern: reOutputSpec}),

		// Lexical use-case badges
		def("Prompt Teacher", "Wrote a prompt that asks the AI to explain or teach something", "👩‍🏫",
			models.BadgeCategoryUseCase, lexicalMatch{Pattern: reTeacher}),
		def("Prompt Challenger", "Wrote a prompt that asks the AI to critique or challenge an idea", "⚔️",
			models.BadgeCategoryUseCase, lexicalMatch{Pattern: reChallenger}),
		def("Prompt Storyteller", "Wrote a prompt that asks for a story or narrative", "📖",
			models.BadgeCategoryUseCase, lexicalMatch{Pattern: reStoryteller}),
		def("Prompt Visualizer", "Wrote a prompt that asks for a visual or image", "🖼️",
			models.BadgeCategoryUseCase, lexicalMatch{Pattern: reVisualizer}),
		def("Prompt Researcher", "Wrote a prompt that asks for research or references", "🔬",
			models.BadgeCategoryUseCase, lexicalMatch{Pattern: reResearcher}),
		def("Prompt Summarizer", "Wrote a prompt that asks for a summary or TL;DR", "📝",
			models.BadgeCategoryUseCase, lexicalMatch{Pattern: reSummarizer}),
		def("Prompt Translator", "Wrote a prompt that asks for translation", "🌐",
			models.BadgeCategoryUseCase, lexicalMatch{Pattern: reTranslator}),
		def("Prompt Debugger", "Wrote a prompt that asks for code debugging or review", "🐞",
			models.BadgeCategoryUseCase, lexicalMatch{Pattern: reDebugger}),
		def("Prompt Optimizer", "Wrote a prompt that asks for optimization or improvement", "⚡",
			models.BadgeCategoryUseCase, lexicalMatch{Pattern: reOptimizer}),
		def("Prompt Analyzer", "Wrote a prompt that asks for analysis or breakdown", "🔎",
			models.BadgeCategoryUseCase, lexicalMatch{Pattern: reAnalyzer}),
		def("Prompt Comparator", "Wrote a prompt that asks for a comparison", "⚖️",
			models.BadgeCategoryUseCase, lexicalMatch{Pattern: reComparator}),

		def("Prompt Explorer", "Tried all four main prompt types at least twice each", "🌏",
			models.BadgeCategoryDiversity, typeDiversity{MinEach: 2}),
		def("Prompt Veteran", "Submitted prompts for 6 months (180 days) since first prompt", "🎖️",
			models.BadgeCategoryConsistency, historySpan{Days: 180}),

		// Meta badge, always evaluated after the main pass
		def("Prompt Legend", "Unlocked 30 different badges", "🏆",
			models.BadgeCategoryMastery, unlockedCountAtLeast{Count: 30}),
	}
}
