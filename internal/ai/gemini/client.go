package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/skillgap/internal/ai"
)

const (
	defaultModel = "gemini-2.5-flash"
	// defaultTemperature keeps replies focused; list and mapping literals
	// suffer from creative phrasing.
	defaultTemperature = 0.3
)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := c.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Config is the explicit client configuration.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
}

// Generator wraps the Google GenAI client. Every call opens a fresh chat so
// no conversation state leaks between stages.
type Generator struct {
	chats       chatCreator
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, cfg Config, logger *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		chats:       genaiChats{chats: client.Chats},
		model:       model,
		temperature: temperature,
		logger:      logger,
	}, nil
}

// GenerateContent sends message with systemInstruction as the persona and
// returns the concatenated text parts of the reply.
func (g *Generator) GenerateContent(ctx context.Context, systemInstruction, message string) (string, error) {
	if g == nil || g.chats == nil {
		return "", fmt.Errorf("%w: gemini generator is not initialized", ai.ErrOracleUnavailable)
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: message must not be empty", ai.ErrOracleRejected)
	}

	config := &genai.GenerateContentConfig{Temperature: genai.Ptr(g.temperature)}
	if system := strings.TrimSpace(systemInstruction); system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	chat, err := g.chats.Create(ctx, g.model, config, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create chat: %w", ai.ErrOracleUnavailable, err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		err = classify(err)
		g.logger.Debug("gemini send message failed", zap.String("model", g.model), zap.Error(err))
		return "", err
	}

	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: gemini api returned no response", ai.ErrOracleRejected)
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked: %s", ai.ErrOracleRejected, fb.BlockReason)
	}

	var builder strings.Builder
	var finish genai.FinishReason
	for _, candidate := range resp.Candidates {
		if candidate == nil {
			continue
		}
		if finish == "" {
			finish = candidate.FinishReason
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		if finish != "" {
			return "", fmt.Errorf("%w: gemini api returned empty response (finish reason %s)", ai.ErrOracleRejected, finish)
		}
		return "", fmt.Errorf("%w: gemini api returned empty response", ai.ErrOracleRejected)
	}

	return output, nil
}

// classify maps API failures onto the oracle taxonomy: the request itself
// being refused is a rejection, everything else means the oracle could not
// be reached or used right now.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %w", ai.ErrOracleRejected, err)
		}
	}
	return fmt.Errorf("%w: %w", ai.ErrOracleUnavailable, err)
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}
