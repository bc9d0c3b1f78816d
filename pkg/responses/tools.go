package responses

import (
	"encoding/json"
	"fmt"
)

// ToolType represents the type tag of a tool definition.
type ToolType string

const (
	ToolTypeFunction    ToolType = "function"
	ToolTypeFileSearch  ToolType = "file_search"
	ToolTypeWebSearch   ToolType = "web_search_preview"
	ToolTypeComputerUse ToolType = "computer_use_preview"
)

func knownToolType(t ToolType) bool {
	switch t {
	case ToolTypeFunction, ToolTypeFileSearch, ToolTypeWebSearch, ToolTypeComputerUse:
		return true
	}
	return false
}

// Tool describes a tool the model may call: either a function defined by the
// caller or one of the built-in tools. Type selects which data pointer is
// set; unknown tool types decode into Raw so that new built-in tools pass
// through the client unharmed.
type Tool struct {
	Type ToolType

	Function    *FunctionTool
	FileSearch  *FileSearchTool
	WebSearch   *WebSearchTool
	ComputerUse *ComputerUseTool

	// Raw holds the original payload for unrecognized tool types.
	Raw json.RawMessage
}

// FunctionTool defines a function in the caller's own code the model can
// choose to call.
type FunctionTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
	Strict      bool            `json:"strict"`
}

// FileSearchTool searches relevant content from uploaded files.
type FileSearchTool struct {
	VectorStoreIDs []string        `json:"vector_store_ids"`
	Filters        json.RawMessage `json:"filters,omitempty"`
	MaxNumResults  int             `json:"max_num_results,omitempty"`
	RankingOptions *RankingOptions `json:"ranking_options,omitempty"`
}

// RankingOptions tunes file search result ranking.
type RankingOptions struct {
	Ranker         string  `json:"ranker"`
	ScoreThreshold float64 `json:"score_threshold"`
}

// WebSearchTool includes data from the internet in response generation.
type WebSearchTool struct {
	SearchContextSize SearchContextSize `json:"search_context_size,omitempty"`
	UserLocation      *UserLocation     `json:"user_location,omitempty"`
}

// SearchContextSize is high level guidance for the amount of context window
// space to use for a web search.
type SearchContextSize string

const (
	SearchContextLow    SearchContextSize = "low"
	SearchContextMedium SearchContextSize = "medium"
	SearchContextHigh   SearchContextSize = "high"
)

// UserLocation holds approximate location parameters for a web search.
type UserLocation struct {
	Type     string `json:"type"`
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
	Region   string `json:"region,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// ComputerUseTool lets the model control a computer interface.
type ComputerUseTool struct {
	DisplayWidth  int    `json:"display_width"`
	DisplayHeight int    `json:"display_height"`
	Environment   string `json:"environment"`
}

// NewFunctionTool builds a function tool definition. parameters is a JSON
// schema object describing the function arguments.
func NewFunctionTool(name, description string, parameters json.RawMessage, strict bool) Tool {
	return Tool{
		Type: ToolTypeFunction,
		Function: &FunctionTool{
			Name:        name,
			Description: description,
			Parameters:  parameters,
			Strict:      strict,
		},
	}
}

// MarshalJSON serializes a Tool into the flat wire format: the type tag plus
// the variant's fields at the top level.
func (t Tool) MarshalJSON() ([]byte, error) {
	type wireBase struct {
		Type ToolType `json:"type"`
	}
	base := wireBase{Type: t.Type}

	switch t.Type {
	case ToolTypeFunction:
		return json.Marshal(struct {
			wireBase
			*FunctionTool
		}{base, t.Function})
	case ToolTypeFileSearch:
		return json.Marshal(struct {
			wireBase
			*FileSearchTool
		}{base, t.FileSearch})
	case ToolTypeWebSearch:
		return json.Marshal(struct {
			wireBase
			*WebSearchTool
		}{base, t.WebSearch})
	case ToolTypeComputerUse:
		return json.Marshal(struct {
			wireBase
			*ComputerUseTool
		}{base, t.ComputerUse})
	}

	if len(t.Raw) > 0 {
		return t.Raw, nil
	}
	return json.Marshal(base)
}

// UnmarshalJSON deserializes a Tool, dispatching on the type tag. Unknown
// tags preserve the payload in Raw.
func (t *Tool) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type ToolType `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}

	*t = Tool{Type: tag.Type}

	switch tag.Type {
	case ToolTypeFunction:
		var d FunctionTool
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		t.Function = &d
	case ToolTypeFileSearch:
		var d FileSearchTool
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		t.FileSearch = &d
	case ToolTypeWebSearch:
		var d WebSearchTool
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		t.WebSearch = &d
	case ToolTypeComputerUse:
		var d ComputerUseTool
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		t.ComputerUse = &d
	default:
		t.Raw = append(json.RawMessage(nil), data...)
	}

	return nil
}

// Name returns the tool's name for function tools and the type tag otherwise.
func (t Tool) Name() string {
	if t.Type == ToolTypeFunction && t.Function != nil {
		return t.Function.Name
	}
	return string(t.Type)
}

// ---------------------------------------------------------------------------
// ToolChoice
// ---------------------------------------------------------------------------

// ToolChoice represents a tool selection strategy. On the wire it is either
// a plain string mode ("auto", "none", "required") or an object forcing a
// specific function or hosted tool.
type ToolChoice struct {
	Mode     string
	Hosted   ToolType
	Function *ToolChoiceFunction
}

// ToolChoiceFunction forces a particular function call by name.
type ToolChoiceFunction struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

var (
	// ToolChoiceAuto lets the model decide whether to use a tool.
	ToolChoiceAuto = ToolChoice{Mode: "auto"}
	// ToolChoiceRequired forces the model to use at least one tool.
	ToolChoiceRequired = ToolChoice{Mode: "required"}
	// ToolChoiceNone prevents the model from using any tool.
	ToolChoiceNone = ToolChoice{Mode: "none"}
)

// NewToolChoiceFunction forces the named function to be called.
func NewToolChoiceFunction(name string) ToolChoice {
	return ToolChoice{Function: &ToolChoiceFunction{Type: "function", Name: name}}
}

// NewToolChoiceHosted forces the given built-in tool to be used.
func NewToolChoiceHosted(t ToolType) ToolChoice {
	return ToolChoice{Hosted: t}
}

// MarshalJSON serializes ToolChoice as either a JSON string or a JSON object.
func (tc ToolChoice) MarshalJSON() ([]byte, error) {
	switch {
	case tc.Mode != "":
		return json.Marshal(tc.Mode)
	case tc.Function != nil:
		return json.Marshal(tc.Function)
	case tc.Hosted != "":
		return json.Marshal(struct {
			Type ToolType `json:"type"`
		}{tc.Hosted})
	}
	return nil, fmt.Errorf("tool choice has neither mode, hosted tool, nor function")
}

// UnmarshalJSON deserializes ToolChoice from either form. The string modes
// are a closed set; an unknown mode is a decode error.
func (tc *ToolChoice) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "auto", "none", "required":
			*tc = ToolChoice{Mode: s}
			return nil
		}
		return fmt.Errorf("unknown tool_choice mode %q", s)
	}

	var obj struct {
		Type ToolType `json:"type"`
		Name string   `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("tool_choice must be a string or object: %w", err)
	}
	if obj.Type == ToolTypeFunction {
		*tc = ToolChoice{Function: &ToolChoiceFunction{Type: "function", Name: obj.Name}}
		return nil
	}
	*tc = ToolChoice{Hosted: obj.Type}
	return nil
}
