package service

import (
	"context"

	"app/internal/model"

	"github.com/rs/zerolog"
)

// GenerationService turns a chat transcript into a validated course via
// the generation service. It makes exactly one upstream call per
// invocation.
type GenerationService interface {
	GenerateCourse(ctx context.Context, messages []model.ChatMessage) (*model.GeneratedCourse, error)
}

type generationService struct {
	client OpenRouterClient
	logger zerolog.Logger
}

func NewGenerationService(client OpenRouterClient, logger zerolog.Logger) GenerationService {
	return &generationService{
		client: client,
		logger: logger.With().Str("service", "GenerationService").Logger(),
	}
}

func (s *generationService) GenerateCourse(ctx context.Context, messages []model.ChatMessage) (*model.GeneratedCourse, error) {
	sanitized := SanitizeChatMessages(messages)

	content, err := s.client.CreateChatCompletion(ctx, sanitized)
	if err != nil {
		return nil, err
	}

	generated, err := ParseGeneratedCourse(content)
	if err != nil {
		s.logger.Warn().Int("raw_len", len(content)).Msg("Generated output failed schema validation")
		return nil, err
	}
	return generated, nil
}
