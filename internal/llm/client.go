// Package llm wraps the OpenAI API behind the two narrow contracts the
// conversation engine needs: an open-domain chat completion with an ordered
// model fallback chain, and the end-of-conversation probability oracle.
package llm

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// ChatApology is returned when every model in the chain fails.
const ChatApology = "I'm sorry, I'm having trouble responding right now."

const systemPrompt = "You are an AI recruitment assistant: you find candidates, " +
	"provide information on open roles, and schedule interviews for qualified applicants."

// Turn is one role/text pair of conversational context.
type Turn struct {
	Role string // "user" or "assistant"
	Text string
}

// completer is the slice of the OpenAI client the package uses. It exists so
// tests can substitute a fake without network access.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client produces open-domain replies. Models are tried in order and the
// first successful completion wins.
type Client struct {
	api     completer
	models  []string
	timeout time.Duration
}

// NewClient builds a Client over the real OpenAI API.
func NewClient(apiKey string, models []string, timeout time.Duration) *Client {
	return &Client{api: openai.NewClient(apiKey), models: models, timeout: timeout}
}

// Complete generates a reply to the given conversational context. Every model
// failure is logged and the next model is tried; when the whole chain fails
// the fixed apology is returned so the conversation never sees an error.
func (c *Client) Complete(ctx context.Context, turns []Turn) string {
	msgs := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, t := range turns {
		role := openai.ChatMessageRoleUser
		if t.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: t.Text})
	}

	for _, model := range c.models {
		cctx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.api.CreateChatCompletion(cctx, openai.ChatCompletionRequest{
			Model:       model,
			Messages:    msgs,
			Temperature: 0.7,
			MaxTokens:   150,
		})
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("model", model).Msg("chat completion failed; trying next model")
			continue
		}
		if len(resp.Choices) == 0 {
			log.Warn().Str("model", model).Msg("chat completion returned no choices")
			continue
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	log.Error().Msg("all chat models failed")
	return ChatApology
}
