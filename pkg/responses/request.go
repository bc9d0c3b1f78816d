package responses

import (
	"encoding/json"
	"fmt"
)

// Request is the request body for creating a model response.
//
// Optional fields use pointer types so that "not set" is distinct from a
// zero value: an absent temperature and a temperature of 0 mean different
// things to the service.
type Request struct {
	// Model is the model ID used to generate the response.
	Model Model `json:"model,omitempty"`

	// Input is the text or item input to generate a response for.
	Input Input `json:"input"`

	// Include selects additional output data to include in the response.
	Include []Include `json:"include,omitempty"`

	// Instructions inserts a system (or developer) message as the first
	// item in the model's context.
	Instructions string `json:"instructions,omitempty"`

	// MaxOutputTokens bounds the number of generated tokens, including
	// reasoning tokens.
	MaxOutputTokens *int `json:"max_output_tokens,omitempty"`

	// Metadata holds up to 16 key-value pairs attached to the response.
	Metadata map[string]string `json:"metadata,omitempty"`

	// ParallelToolCalls allows the model to run tool calls in parallel.
	ParallelToolCalls *bool `json:"parallel_tool_calls,omitempty"`

	// PreviousResponseID chains this request onto an earlier response for
	// multi-turn conversations.
	PreviousResponseID string `json:"previous_response_id,omitempty"`

	// Reasoning configures reasoning models.
	Reasoning *ReasoningConfig `json:"reasoning,omitempty"`

	// ServiceTier selects the processing latency tier.
	ServiceTier ServiceTier `json:"service_tier,omitempty"`

	// Store controls whether the response is persisted for later retrieval.
	Store *bool `json:"store,omitempty"`

	// Stream requests server-sent event delivery. The client sets this
	// according to the entry point used (Create vs Stream); leave it unset.
	Stream *bool `json:"stream,omitempty"`

	// Temperature is the sampling temperature, between 0 and 2.
	Temperature *float64 `json:"temperature,omitempty"`

	// Text configures the output text format (plain or structured JSON).
	Text *TextConfig `json:"text,omitempty"`

	// ToolChoice controls how the model selects tools.
	ToolChoice *ToolChoice `json:"tool_choice,omitempty"`

	// Tools lists the tools the model may call.
	Tools []Tool `json:"tools,omitempty"`

	// TopP is the nucleus sampling parameter, between 0 and 1.
	TopP *float64 `json:"top_p,omitempty"`

	// Truncation is the truncation strategy for the model response.
	Truncation Truncation `json:"truncation,omitempty"`

	// User is an identifier for the end-user, for abuse detection.
	User string `json:"user,omitempty"`
}

// Include selects additional output data in the model response.
type Include string

const (
	IncludeFileSearchResults     Include = "file_search_call.results"
	IncludeInputImageURLs        Include = "message.input_image.image_url"
	IncludeComputerCallImageURLs Include = "computer_call_output.output.image_url"
)

// Truncation is the truncation strategy for the model response.
type Truncation string

const (
	TruncationAuto     Truncation = "auto"
	TruncationDisabled Truncation = "disabled"
)

// ServiceTier is the latency tier used for processing the request.
type ServiceTier string

const (
	ServiceTierAuto    ServiceTier = "auto"
	ServiceTierDefault ServiceTier = "default"
	ServiceTierFlex    ServiceTier = "flex"
)

// TextConfig configures the text output of the model: plain text or
// structured JSON.
type TextConfig struct {
	Format *TextFormat `json:"format,omitempty"`
}

// TextFormat specifies the output text format. Type is "text",
// "json_schema", or "json_object"; the Name, Description, Strict, and
// Schema fields apply to json_schema only and carry the schema through the
// pipeline as opaque data.
type TextFormat struct {
	Type        string          `json:"type"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Strict      *bool           `json:"strict,omitempty"`
	Schema      json.RawMessage `json:"schema,omitempty"`
}

// JSONSchemaFormat builds a TextConfig requesting structured output against
// the given JSON schema.
func JSONSchemaFormat(name string, schema json.RawMessage, strict bool) *TextConfig {
	return &TextConfig{Format: &TextFormat{
		Type:   "json_schema",
		Name:   name,
		Schema: schema,
		Strict: &strict,
	}}
}

// ReasoningConfig holds configuration for reasoning models.
type ReasoningConfig struct {
	Effort          ReasoningEffort `json:"effort,omitempty"`
	GenerateSummary SummaryConfig   `json:"generate_summary,omitempty"`
}

// ReasoningEffort constrains effort on reasoning.
type ReasoningEffort string

const (
	ReasoningEffortLow    ReasoningEffort = "low"
	ReasoningEffortMedium ReasoningEffort = "medium"
	ReasoningEffortHigh   ReasoningEffort = "high"
)

// SummaryConfig controls the reasoning summary the model generates.
type SummaryConfig string

const (
	SummaryConcise  SummaryConfig = "concise"
	SummaryDetailed SummaryConfig = "detailed"
)

const (
	maxMetadataPairs    = 16
	maxMetadataKeyLen   = 64
	maxMetadataValueLen = 512
)

// Validate checks the request for data-model invariant violations. It
// returns an *InvalidRequestError describing the first failure, or nil.
// EncodeRequest calls it before marshalling; callers may use it earlier to
// fail fast.
func (r *Request) Validate() error {
	if r.Model == "" {
		return NewInvalidRequestError("model", "model is required")
	}

	if r.Input.Items != nil && r.Input.Text != "" {
		return NewInvalidRequestError("input", "text and item input are mutually exclusive")
	}

	if r.MaxOutputTokens != nil && *r.MaxOutputTokens <= 0 {
		return NewInvalidRequestError("max_output_tokens", "max_output_tokens must be positive")
	}

	if r.Temperature != nil && (*r.Temperature < 0.0 || *r.Temperature > 2.0) {
		return NewInvalidRequestError("temperature", "temperature must be between 0.0 and 2.0")
	}

	if r.TopP != nil && (*r.TopP < 0.0 || *r.TopP > 1.0) {
		return NewInvalidRequestError("top_p", "top_p must be between 0.0 and 1.0")
	}

	if r.Truncation != "" && r.Truncation != TruncationAuto && r.Truncation != TruncationDisabled {
		return NewInvalidRequestError("truncation", "truncation must be 'auto' or 'disabled'")
	}

	if len(r.Metadata) > maxMetadataPairs {
		return NewInvalidRequestError("metadata",
			fmt.Sprintf("metadata exceeds maximum of %d pairs", maxMetadataPairs))
	}
	for k, v := range r.Metadata {
		if len(k) > maxMetadataKeyLen {
			return NewInvalidRequestError("metadata",
				fmt.Sprintf("metadata key %q exceeds %d characters", k, maxMetadataKeyLen))
		}
		if len(v) > maxMetadataValueLen {
			return NewInvalidRequestError("metadata",
				fmt.Sprintf("metadata value for %q exceeds %d characters", k, maxMetadataValueLen))
		}
	}

	// A forced function must reference a declared tool.
	if r.ToolChoice != nil && r.ToolChoice.Function != nil {
		name := r.ToolChoice.Function.Name
		found := false
		for _, tool := range r.Tools {
			if tool.Type == ToolTypeFunction && tool.Function != nil && tool.Function.Name == name {
				found = true
				break
			}
		}
		if !found {
			return NewInvalidRequestError("tool_choice",
				fmt.Sprintf("tool_choice references unknown tool %q", name))
		}
	}

	return nil
}
