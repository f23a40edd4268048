// Package ai implements the assistant responder on a local eino chain, for
// deployments that run their own Ark model instead of proxying to a remote
// assist endpoint.
package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/oakline/concierge/internal/config"
	"github.com/oakline/concierge/internal/model/conversation"
	"github.com/oakline/concierge/internal/model/sitemap"
)

// Service runs the concierge prompt chain over an Ark chat model. It
// satisfies upstream.Responder.
type Service struct {
	chatModel model.ChatModel
	pages     sitemap.Store
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the prompt chain against the configured model.
func NewService(ctx context.Context, pages sitemap.Store, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		pages:     pages,
		cfg:       cfg,
		chain:     runnable,
	}, nil
}

// Reply generates one assistant reply for the message and its prior context.
func (s *Service) Reply(ctx context.Context, message string, history []conversation.Turn) (string, error) {
	input := map[string]any{
		"system":  BuildSystemPrompt(s.pages.List()),
		"history": buildHistoryMessages(history, s.cfg.HistoryLimit),
		"query":   message,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run concierge chain: %w", err)
	}

	log.Printf("[ai] generated reply, length=%d", len(response.Content))
	return response.Content, nil
}

// buildHistoryMessages converts the trailing window of transcript turns into
// model messages. A dangling user turn (a failed exchange on the widget side)
// is carried through as-is.
func buildHistoryMessages(history []conversation.Turn, limit int) []*schema.Message {
	if len(history) == 0 {
		return nil
	}

	startIdx := 0
	if limit > 0 && len(history) > limit {
		startIdx = len(history) - limit
	}

	messages := make([]*schema.Message, 0, len(history)-startIdx)
	for _, turn := range history[startIdx:] {
		switch turn.Role {
		case conversation.RoleUser:
			messages = append(messages, schema.UserMessage(turn.Content))
		case conversation.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		}
	}

	return messages
}
