package evaluator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/pushp314/prompttutor-backend/internal/models"
)

// Reviewer scores a raw prompt against the rubric for its type. The
// pipeline treats it as an opaque collaborator: failures propagate to
// the caller and nothing is recorded.
type Reviewer interface {
	Review(ctx context.Context, prompt string, promptType models.PromptType) (models.ReviewResult, error)
}

// criteriaWeights drives both the simulated scoring and the criteria
// list sent to the model in API mode.
var criteriaWeights = map[models.PromptType][]weightedCriterion{
	models.PromptTypeChatbot: {
		{"Clarity", 2.0},
		{"Specificity", 1.5},
		{"Structure", 1.0},
		{"Completeness", 1.5},
		{"Complexity Management", 1.0},
		{"Instruction Emphasis", 1.0},
	},
	models.PromptTypeCoding: {
		{"Clarity", 1.5},
		{"Specificity", 2.0},
		{"Structure", 1.5},
		{"Completeness", 2.0},
		{"Complexity Management", 1.5},
		{"Correctness & Constraints", 2.0},
	},
	models.PromptTypeImage: {
		{"Clarity", 1.5},
		{"Specificity", 2.0},
		{"Structure", 1.0},
		{"Completeness", 1.5},
		{"Complexity Management", 1.0},
		{"Originality/Creativity", 2.0},
	},
	models.PromptTypeResearch: {
		{"Clarity", 1.5},
		{"Specificity", 1.5},
		{"Structure", 2.0},
		{"Completeness", 2.0},
		{"Complexity Management", 2.0},
		{"Use of Best Practices", 1.5},
	},
}

type weightedCriterion struct {
	Name   string
	Weight float64
}

func weightsFor(promptType models.PromptType) []weightedCriterion {
	if w, ok := criteriaWeights[promptType]; ok {
		return w
	}
	return criteriaWeights[models.PromptTypeChatbot]
}

// Simulator is the offline reviewer: rubric ratings are drawn 3-5 and
// folded into a weighted 0-100 score. Used whenever no API key is
// configured, and in tests.
type Simulator struct {
	rng *rand.Rand
}

func NewSimulator(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

func (s *Simulator) Review(_ context.Context, prompt string, promptType models.PromptType) (models.ReviewResult, error) {
	if prompt == "" || promptType == "" {
		return models.ReviewResult{}, fmt.Errorf("prompt and type are required")
	}

	weights := weightsFor(promptType)
	criteria := make(map[string]int, len(weights))
	var weightedSum, totalWeight float64
	for _, w := range weights {
		rating := s.rng.Intn(3) + 3
		criteria[w.Name] = rating
		weightedSum += float64(rating) * w.Weight
		totalWeight += w.Weight
	}
	score := int(math.Round(weightedSum / totalWeight * 20))

	topics, entities, styles := ExtractFeatures(prompt, promptType)

	return models.ReviewResult{
		Prompt:         prompt,
		Type:           promptType,
		Score:          score,
		Criteria:       criteria,
		Suggestions:    suggestions(promptType, criteria),
		ImprovedPrompt: improvedPrompt(prompt, promptType),
		Topics:         topics,
		Entities:       entities,
		Styles:         styles,
	}, nil
}

// suggestions derives advice from weak rubric dimensions, per type
// first and then the general rules.
func suggestions(promptType models.PromptType, criteria map[string]int) []string {
	var out []string

	switch promptType {
	case models.PromptTypeChatbot:
		if criteria["Clarity"] < 4 {
			out = append(out, "Make your question more specific and clear about what you want to know.")
		}
		if criteria["Specificity"] < 4 {
			out = append(out, "Add context about your target audience or desired response style.")
		}
	case models.PromptTypeCoding:
		if criteria["Correctness & Constraints"] < 4 {
			out = append(out, "Specify any constraints or requirements for the code solution.")
		}
		if criteria["Completeness"] < 4 {
			out = append(out, "Include relevant code context or error messages if applicable.")
		}
	case models.PromptTypeImage:
		if criteria["Originality/Creativity"] < 4 {
			out = append(out, "Add more creative and specific details about the desired image style and mood.")
		}
		if criteria["Specificity"] < 4 {
			out = append(out, "Include specific details about composition, lighting, and artistic style.")
		}
	case models.PromptTypeResearch:
		if criteria["Structure"] < 4 {
			out = append(out, "Organize your research request into clear sections (context, questions, desired format).")
		}
		if criteria["Complexity Management"] < 4 {
			out = append(out, "Break down complex research questions into smaller, manageable parts.")
		}
	}

	if criteria["Clarity"] < 3 {
		out = append(out, "Make your instructions clearer and more direct.")
	}
	if criteria["Structure"] < 3 {
		out = append(out, "Use formatting (bullet points, sections) to better organize your prompt.")
	}
	if criteria["Complexity Management"] < 3 {
		out = append(out, "Break down complex tasks into step-by-step instructions.")
	}

	return out
}

// ExtractFeatures performs the heuristic topic/entity/style detection
// used in simulation mode. Style tags feed the style badges, so the
// markers must stay aligned with the badge catalog.
func ExtractFeatures(prompt string, promptType models.PromptType) (topics, entities, styles []string) {
	topics = []string{"AI", "prompting", strings.ToLower(string(promptType))}
	entities = []string{"OpenAI", "GPT"}
	styles = []string{}

	if strings.Contains(prompt, "•") || strings.Contains(prompt, "-") {
		styles = append(styles, "uses_bullet_points")
	}
	if strings.Contains(prompt, "Step") || strings.Contains(prompt, "1.") {
		styles = append(styles, "uses_numbered_steps")
	}
	if strings.Contains(prompt, "You are") || strings.Contains(prompt, "Act as") {
		styles = append(styles, "specifies_role")
	}
	if strings.Contains(prompt, "Example") || strings.Contains(prompt, "For instance") {
		styles = append(styles, "provides_examples")
	}
	return topics, entities, styles
}

// improvedPrompt wraps the prompt in the per-type scaffold template.
func improvedPrompt(prompt string, promptType models.PromptType) string {
	switch promptType {
	case models.PromptTypeChatbot:
		return fmt.Sprintf("You are a helpful AI assistant. Please respond to the following request in a clear and concise manner:\n\n%s\n\nPlease provide a detailed response that addresses all aspects of the request.", prompt)
	case models.PromptTypeCoding:
		return fmt.Sprintf("You are an expert programmer. Please help with the following coding task:\n\n%s\n\nPlease provide a solution with clear explanations and comments.", prompt)
	case models.PromptTypeImage:
		return fmt.Sprintf("You are an AI image generation expert. Please create an image based on the following description:\n\n%s\n\nPlease ensure the image matches the description in style, composition, and mood.", prompt)
	case models.PromptTypeResearch:
		return fmt.Sprintf("You are a research assistant. Please analyze the following topic:\n\n%s\n\nPlease provide a comprehensive analysis with relevant examples and citations.", prompt)
	default:
		return prompt
	}
}
