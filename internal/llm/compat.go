package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// httpClientTimeout is the default timeout for HTTP requests
const httpClientTimeout = 10 * time.Minute

var defaultHTTPClient = &http.Client{
	Timeout: httpClientTimeout,
}

// CompatProvider implements Provider for OpenAI-compatible APIs.
// Used by Ollama, LM Studio, and other compatible servers.
type CompatProvider struct {
	baseURL string
	apiKey  string // Optional, most local servers ignore it
	model   string
}

func NewCompatProvider(baseURL, apiKey, model string) *CompatProvider {
	return &CompatProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

func (p *CompatProvider) Name() string {
	return fmt.Sprintf("OpenAI-compatible (%s)", p.model)
}

// OpenAI-compatible request/response structures
type compatChatRequest struct {
	Model       string          `json:"model"`
	Messages    []compatMessage `json:"messages"`
	Temperature *float64        `json:"temperature,omitempty"`
	TopP        *float64        `json:"top_p,omitempty"`
	MaxTokens   *int            `json:"max_tokens,omitempty"`
	Stream      bool            `json:"stream,omitempty"`
}

type compatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type compatChatResponse struct {
	Choices []compatChoice  `json:"choices"`
	Usage   *compatUsage    `json:"usage,omitempty"`
	Error   *compatAPIError `json:"error,omitempty"`
}

type compatChoice struct {
	Delta        *compatMessage `json:"delta,omitempty"`
	FinishReason string         `json:"finish_reason"`
}

type compatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type compatAPIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (p *CompatProvider) Stream(ctx context.Context, req Request) (Stream, error) {
	return newEventStream(ctx, func(ctx context.Context, events chan<- Event) error {
		messages := buildCompatMessages(req.Messages)
		if len(messages) == 0 {
			return fmt.Errorf("no messages provided")
		}

		chatReq := compatChatRequest{
			Model:    chooseModel(req.Model, p.model),
			Messages: messages,
			Stream:   true,
		}
		if req.Temperature > 0 {
			v := float64(req.Temperature)
			chatReq.Temperature = &v
		}
		if req.TopP > 0 {
			v := float64(req.TopP)
			chatReq.TopP = &v
		}
		if req.MaxOutputTokens > 0 {
			v := req.MaxOutputTokens
			chatReq.MaxTokens = &v
		}

		resp, err := p.makeChatRequest(ctx, chatReq)
		if err != nil {
			return fmt.Errorf("API request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return &StatusError{
				Status:     resp.StatusCode,
				Message:    strings.TrimSpace(string(body)),
				RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			}
		}

		scanner := bufio.NewScanner(resp.Body)
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, 1024*1024)

		var lastUsage *Usage

		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				break
			}

			var chatResp compatChatResponse
			if err := json.Unmarshal([]byte(data), &chatResp); err != nil {
				continue
			}

			if chatResp.Error != nil {
				return fmt.Errorf("API error: %s", chatResp.Error.Message)
			}

			if chatResp.Usage != nil {
				lastUsage = &Usage{
					InputTokens:  chatResp.Usage.PromptTokens,
					OutputTokens: chatResp.Usage.CompletionTokens,
				}
			}

			for _, choice := range chatResp.Choices {
				if choice.Delta != nil && choice.Delta.Content != "" {
					events <- Event{Type: EventTextDelta, Text: choice.Delta.Content}
				}
			}
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("streaming error: %w", err)
		}

		if lastUsage != nil {
			events <- Event{Type: EventUsage, Use: lastUsage}
		}
		events <- Event{Type: EventDone}
		return nil
	}), nil
}

func (p *CompatProvider) makeChatRequest(ctx context.Context, req compatChatRequest) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	return defaultHTTPClient.Do(httpReq)
}

func buildCompatMessages(messages []Message) []compatMessage {
	var result []compatMessage
	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		result = append(result, compatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return result
}
