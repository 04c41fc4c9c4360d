package google

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/config"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"
)

// GeminiClient is the conversational agent. It turns an utterance plus the
// session history into the raw JSON intent document. Markdown fences around
// the model output are stripped here, at the boundary; the strict parse
// happens downstream.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, cfg config.GoogleConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.GeminiModel)
	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Extract(ctx context.Context, session *models.Session, userText string) ([]byte, error) {
	prompt := composePrompt(session, userText)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}

	return []byte(stripFences(sb.String())), nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// composePrompt flattens the session into a role-tagged transcript ending
// with the new user turn.
func composePrompt(session *models.Session, userText string) string {
	var sb strings.Builder
	sb.WriteString(session.Prompt)
	sb.WriteString("\n\n")
	for _, turn := range session.History {
		sb.WriteString(turn.Role)
		sb.WriteString(": ")
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}
	sb.WriteString(models.RoleUser)
	sb.WriteString(": ")
	sb.WriteString(userText)
	return sb.String()
}

func stripFences(answer string) string {
	answer = strings.TrimSpace(answer)
	if strings.HasPrefix(answer, "```") {
		answer = strings.TrimPrefix(answer, "```json")
		answer = strings.TrimPrefix(answer, "```")
		answer = strings.TrimSuffix(strings.TrimSpace(answer), "```")
	}
	return strings.TrimSpace(answer)
}
