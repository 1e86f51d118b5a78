package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xaenox/vida-bot/internal/models"
)

type GPTRefinement struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// GPTClassifier layers a language model over the keyword classifier. The
// keyword table alone decides the intent kind, so classification stays
// deterministic; the model only refines the extracted title and category.
// Any API or parse failure falls back to the keyword result.
type GPTClassifier struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	keyword     *KeywordClassifier
	logger      *zap.Logger
}

func NewGPTClassifier(apiKey, model string, maxTokens int, temperature float64, keyword *KeywordClassifier, logger *zap.Logger) *GPTClassifier {
	return &GPTClassifier{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		keyword:     keyword,
		logger:      logger,
	}
}

func (c *GPTClassifier) Classify(text string) models.Intent {
	intent := c.keyword.Classify(text)
	if intent.Kind == models.IntentUnrecognized || intent.Kind == models.IntentQueryUpcoming {
		return intent
	}

	refinement, err := c.refine(text)
	if err != nil {
		c.logger.Error("Failed to refine intent with GPT", zap.Error(err))
		return intent
	}

	if refinement.Title != "" {
		intent.Params.Title = refinement.Title
	}
	if intent.Params.Category == "" && refinement.Category != "" {
		intent.Params.Category = refinement.Category
	}
	return intent
}

func (c *GPTClassifier) refine(text string) (GPTRefinement, error) {
	ctx := context.Background()

	prompt := fmt.Sprintf(`The following WhatsApp message (in Portuguese) is a productivity command
(appointment, reminder or financial transaction). Extract:
- a short title describing the subject (without dates, times or amounts)
- a spending/income category if one is implied, otherwise an empty string

Return a JSON object with this structure:
{
    "title": "short_title",
    "category": "category_or_empty"
}

Message: %s`, text)

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   c.maxTokens,
			Temperature: float32(c.temperature),
		},
	)
	if err != nil {
		return GPTRefinement{}, err
	}

	var refinement GPTRefinement
	response := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(response), &refinement); err != nil {
		return GPTRefinement{}, fmt.Errorf("failed to parse GPT response %q: %w", response, err)
	}
	return refinement, nil
}
