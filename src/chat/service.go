package chat

import (
	"context"

	"github.com/gerryalvrz/psychat-solana/pkg/logger"
)

type Service struct {
	Client          *Client
	Session         *Session
	DefaultProvider string
	DefaultModel    string
}

func NewService(client *Client, defaultProvider, defaultModel string) *Service {
	if defaultModel == "" {
		defaultModel = DefaultModelFor(defaultProvider)
	}
	return &Service{
		Client:          client,
		Session:         NewSession(),
		DefaultProvider: defaultProvider,
		DefaultModel:    defaultModel,
	}
}

// SendMessage appends the user's text to the transcript, requests a
// completion, and appends the assistant reply.
func (s *Service) SendMessage(ctx context.Context, text, provider, model string) (ChatMessage, CompletionResponse, error) {
	if provider == "" {
		provider = s.DefaultProvider
	}
	if model == "" {
		model = s.DefaultModel
		if provider != s.DefaultProvider {
			model = DefaultModelFor(provider)
		}
	}

	userMsg := s.Session.Append(RoleUser, text)

	completion, err := s.Client.Complete(ctx, CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: text}},
		Provider: provider,
		Model:    model,
	})
	if err != nil {
		logger.Default().Errorf(err, "Completion request failed for session %s", s.Session.ID)
		return userMsg, CompletionResponse{}, err
	}

	reply := s.Session.Append(RoleAssistant, completion.Response)
	return reply, completion, nil
}
