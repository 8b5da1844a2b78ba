package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ExitOracle scores the probability that a conversation is concluding using
// a classifier model prompted for a single end/continue label. The model is
// called with max_tokens 1 and temperature 0; the returned token's logprob
// is converted into a calibrated probability of the "end" label.
type ExitOracle struct {
	api     completer
	model   string
	timeout time.Duration
}

// NewExitOracle builds an ExitOracle over the real OpenAI API.
func NewExitOracle(apiKey, model string, timeout time.Duration) *ExitOracle {
	return &ExitOracle{api: openai.NewClient(apiKey), model: model, timeout: timeout}
}

const oracleInstruction = "You classify recruitment SMS conversations. " +
	"Given the recent turns, answer with exactly one word: " +
	"\"end\" if the conversation is concluding, \"continue\" otherwise."

// PredictEndProbability implements exit.Oracle. An API failure is returned
// as an error; the caller decides how to degrade.
func (o *ExitOracle) PredictEndProbability(ctx context.Context, history []string, current string) (float64, error) {
	var b strings.Builder
	for _, h := range history {
		b.WriteString(h)
		b.WriteString("\n")
	}
	b.WriteString(current)
	b.WriteString("\n\n###\nLabel:")

	cctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.api.CreateChatCompletion(cctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: oracleInstruction},
			{Role: openai.ChatMessageRoleUser, Content: b.String()},
		},
		MaxTokens:   1,
		Temperature: 0,
		LogProbs:    true,
	})
	if err != nil {
		return 0, fmt.Errorf("exit oracle: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, errors.New("exit oracle: empty response")
	}

	choice := resp.Choices[0]
	label := strings.ToLower(strings.TrimSpace(choice.Message.Content))

	// Without logprobs the label is all we have: treat it as certain.
	p := 1.0
	if choice.LogProbs != nil && len(choice.LogProbs.Content) > 0 {
		p = math.Exp(choice.LogProbs.Content[0].LogProb)
	}
	if strings.HasPrefix(label, "end") {
		return clamp01(p), nil
	}
	return clamp01(1 - p), nil
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
