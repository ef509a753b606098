package providers

import (
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
)

// toSchemaMessages converts pipeline messages to langchaingo MessageContent.
func toSchemaMessages(messages []llm.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		role := llms.ChatMessageTypeHuman
		switch msg.Role {
		case llm.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case llm.RoleAssistant:
			role = llms.ChatMessageTypeAI
		}
		result = append(result, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}
	return result
}

// fromLangchainResponse converts a langchaingo response.
func fromLangchainResponse(resp *llms.ContentResponse, model string) *llm.CompletionResponse {
	out := &llm.CompletionResponse{
		ID:           uuid.New().String(),
		Model:        model,
		Message:      llm.NewAssistantMessage(""),
		FinishReason: llm.FinishReasonStop,
	}
	if resp == nil || len(resp.Choices) == 0 {
		return out
	}

	choice := resp.Choices[0]
	out.Message.Content = choice.Content

	switch choice.StopReason {
	case "length", "max_tokens", "MAX_TOKENS":
		out.FinishReason = llm.FinishReasonLength
	case "content_filter", "SAFETY":
		out.FinishReason = llm.FinishReasonContentFilter
	}

	out.Usage = usageFromInfo(choice.GenerationInfo)
	return out
}

// usageFromInfo reads token counts from GenerationInfo. Key names differ per
// backend so both spellings are checked.
func usageFromInfo(info map[string]any) llm.CompletionTokenUsage {
	var u llm.CompletionTokenUsage
	if info == nil {
		return u
	}
	u.PromptTokens = firstInt(info, "PromptTokens", "input_tokens")
	u.CompletionTokens = firstInt(info, "CompletionTokens", "output_tokens")
	u.TotalTokens = firstInt(info, "TotalTokens")
	if u.TotalTokens == 0 {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	return u
}

func firstInt(info map[string]any, keys ...string) int {
	for _, k := range keys {
		switch v := info[k].(type) {
		case int:
			return v
		case int32:
			return int(v)
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}

// buildCallOptions converts a request to langchaingo call options.
func buildCallOptions(req llm.CompletionRequest) []llms.CallOption {
	callOpts := make([]llms.CallOption, 0, 4)
	if req.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(req.Temperature))
	}
	if req.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Model != "" {
		callOpts = append(callOpts, llms.WithModel(req.Model))
	}
	if req.JSONMode {
		callOpts = append(callOpts, llms.WithJSONMode())
	}
	return callOpts
}

// healthRequest is the smallest useful request for reachability checks.
func healthRequest(model string) llm.CompletionRequest {
	return llm.CompletionRequest{
		Model:     model,
		Messages:  []llm.Message{llm.NewUserMessage("ping")},
		MaxTokens: 1,
	}
}
