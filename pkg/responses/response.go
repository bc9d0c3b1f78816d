package responses

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ResponseStatus represents the overall status of a response. The member set
// is closed: decoding an unknown status fails rather than falling back,
// since callers branch on terminal statuses and a silently passed-through
// unknown value would corrupt that logic.
type ResponseStatus string

const (
	ResponseStatusQueued     ResponseStatus = "queued"
	ResponseStatusInProgress ResponseStatus = "in_progress"
	ResponseStatusCompleted  ResponseStatus = "completed"
	ResponseStatusIncomplete ResponseStatus = "incomplete"
	ResponseStatusFailed     ResponseStatus = "failed"
	ResponseStatusCancelled  ResponseStatus = "cancelled"
)

// UnmarshalJSON rejects values outside the known status set.
func (s *ResponseStatus) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch ResponseStatus(v) {
	case ResponseStatusQueued, ResponseStatusInProgress, ResponseStatusCompleted,
		ResponseStatusIncomplete, ResponseStatusFailed, ResponseStatusCancelled:
		*s = ResponseStatus(v)
		return nil
	}
	return fmt.Errorf("unknown response status %q", v)
}

// Terminal reports whether the status is final: no further state changes or
// output will follow.
func (s ResponseStatus) Terminal() bool {
	switch s {
	case ResponseStatusCompleted, ResponseStatusIncomplete,
		ResponseStatusFailed, ResponseStatusCancelled:
		return true
	}
	return false
}

// Response is the response object returned by the service: the generated
// output items plus the echoed request configuration and usage accounting.
type Response struct {
	ID                 string             `json:"id"`
	Object             string             `json:"object,omitempty"`
	CreatedAt          int64              `json:"created_at,omitempty"`
	Status             ResponseStatus     `json:"status"`
	Error              *APIError          `json:"error,omitempty"`
	IncompleteDetails  *IncompleteDetails `json:"incomplete_details,omitempty"`
	Instructions       string             `json:"instructions,omitempty"`
	MaxOutputTokens    *int               `json:"max_output_tokens,omitempty"`
	Model              Model              `json:"model,omitempty"`
	Output             []Item             `json:"output"`
	ParallelToolCalls  *bool              `json:"parallel_tool_calls,omitempty"`
	PreviousResponseID string             `json:"previous_response_id,omitempty"`
	Reasoning          *ReasoningConfig   `json:"reasoning,omitempty"`
	Store              *bool              `json:"store,omitempty"`
	Temperature        *float64           `json:"temperature,omitempty"`
	Text               *TextConfig        `json:"text,omitempty"`
	ToolChoice         *ToolChoice        `json:"tool_choice,omitempty"`
	Tools              []Tool             `json:"tools,omitempty"`
	TopP               *float64           `json:"top_p,omitempty"`
	Truncation         Truncation         `json:"truncation,omitempty"`
	Usage              *Usage             `json:"usage,omitempty"`
	User               string             `json:"user,omitempty"`
	Metadata           map[string]string  `json:"metadata,omitempty"`
}

// IncompleteDetails explains why a response finished incomplete.
type IncompleteDetails struct {
	Reason string `json:"reason,omitempty"`
}

// Usage holds token usage accounting for a response.
type Usage struct {
	InputTokens         int                 `json:"input_tokens"`
	OutputTokens        int                 `json:"output_tokens"`
	TotalTokens         int                 `json:"total_tokens"`
	InputTokensDetails  InputTokensDetails  `json:"input_tokens_details"`
	OutputTokensDetails OutputTokensDetails `json:"output_tokens_details"`
}

// InputTokensDetails breaks down input token usage.
type InputTokensDetails struct {
	CachedTokens int `json:"cached_tokens"`
}

// OutputTokensDetails breaks down output token usage.
type OutputTokensDetails struct {
	ReasoningTokens int `json:"reasoning_tokens"`
}

// OutputText concatenates the text of all output_text content parts across
// the response's message output items, in order. It covers the common
// "just give me the text" case.
func (r *Response) OutputText() string {
	var b strings.Builder
	for _, item := range r.Output {
		if item.Type != ItemTypeMessage || item.Message == nil {
			continue
		}
		for _, part := range item.Message.Content {
			if part.Type == ContentPartOutputText {
				b.WriteString(part.Text)
			}
		}
	}
	return b.String()
}

// FunctionCalls returns the function call items in the response output,
// in order.
func (r *Response) FunctionCalls() []FunctionCallData {
	var calls []FunctionCallData
	for _, item := range r.Output {
		if item.Type == ItemTypeFunctionCall && item.FunctionCall != nil {
			calls = append(calls, *item.FunctionCall)
		}
	}
	return calls
}

// InputItemList is the paginated list of input items for a response,
// returned by ListInputItems.
type InputItemList struct {
	Object  string `json:"object"`
	Data    []Item `json:"data"`
	FirstID string `json:"first_id,omitempty"`
	LastID  string `json:"last_id,omitempty"`
	HasMore bool   `json:"has_more"`
}
