package responses

import (
	"encoding/json"
	"strings"
	"testing"
)

func intPtr(i int) *int             { return &i }
func float64Ptr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool          { return &b }

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		wantParam string
	}{
		{
			name:      "missing model",
			req:       Request{Input: TextInput("hi")},
			wantParam: "model",
		},
		{
			name: "both input forms",
			req: Request{
				Model: ModelGPT4o,
				Input: Input{Text: "hi", Items: []Item{UserMessage("hi")}},
			},
			wantParam: "input",
		},
		{
			name: "non-positive max output tokens",
			req: Request{
				Model:           ModelGPT4o,
				Input:           TextInput("hi"),
				MaxOutputTokens: intPtr(0),
			},
			wantParam: "max_output_tokens",
		},
		{
			name: "temperature too high",
			req: Request{
				Model:       ModelGPT4o,
				Input:       TextInput("hi"),
				Temperature: float64Ptr(2.5),
			},
			wantParam: "temperature",
		},
		{
			name: "temperature negative",
			req: Request{
				Model:       ModelGPT4o,
				Input:       TextInput("hi"),
				Temperature: float64Ptr(-0.1),
			},
			wantParam: "temperature",
		},
		{
			name: "top_p out of range",
			req: Request{
				Model: ModelGPT4o,
				Input: TextInput("hi"),
				TopP:  float64Ptr(1.1),
			},
			wantParam: "top_p",
		},
		{
			name: "bad truncation",
			req: Request{
				Model:      ModelGPT4o,
				Input:      TextInput("hi"),
				Truncation: "middle",
			},
			wantParam: "truncation",
		},
		{
			name: "forced tool not declared",
			req: Request{
				Model:      ModelGPT4o,
				Input:      TextInput("hi"),
				ToolChoice: choicePtr(NewToolChoiceFunction("missing_tool")),
			},
			wantParam: "tool_choice",
		},
		{
			name: "valid minimal",
			req: Request{
				Model: ModelGPT4o,
				Input: TextInput("hi"),
			},
		},
		{
			name: "valid with forced declared tool",
			req: Request{
				Model: ModelGPT4o,
				Input: TextInput("hi"),
				Tools: []Tool{
					NewFunctionTool("get_weather", "", json.RawMessage(`{}`), false),
				},
				ToolChoice: choicePtr(NewToolChoiceFunction("get_weather")),
			},
		},
		{
			name: "valid boundary temperatures",
			req: Request{
				Model:       ModelGPT4o,
				Input:       TextInput("hi"),
				Temperature: float64Ptr(2.0),
				TopP:        float64Ptr(0.0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantParam == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			invalid, ok := AsInvalidRequest(err)
			if !ok {
				t.Fatalf("Validate() = %v, want *InvalidRequestError", err)
			}
			if invalid.Param != tt.wantParam {
				t.Errorf("Param = %q, want %q", invalid.Param, tt.wantParam)
			}
		})
	}
}

func TestRequestValidateMetadataLimits(t *testing.T) {
	base := Request{Model: ModelGPT4o, Input: TextInput("hi")}

	tooMany := base
	tooMany.Metadata = map[string]string{}
	for i := 0; i < 17; i++ {
		tooMany.Metadata[strings.Repeat("k", i+1)] = "v"
	}
	if err := tooMany.Validate(); err == nil {
		t.Error("expected error for more than 16 metadata pairs")
	}

	longKey := base
	longKey.Metadata = map[string]string{strings.Repeat("k", 65): "v"}
	if err := longKey.Validate(); err == nil {
		t.Error("expected error for metadata key over 64 characters")
	}

	longValue := base
	longValue.Metadata = map[string]string{"k": strings.Repeat("v", 513)}
	if err := longValue.Validate(); err == nil {
		t.Error("expected error for metadata value over 512 characters")
	}

	ok := base
	ok.Metadata = map[string]string{strings.Repeat("k", 64): strings.Repeat("v", 512)}
	if err := ok.Validate(); err != nil {
		t.Errorf("boundary metadata should validate, got %v", err)
	}
}

func TestRequestOmitsUnsetFields(t *testing.T) {
	req := Request{Model: ModelGPT4oMini, Input: TextInput("hi")}

	data, err := json.Marshal(&req)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	// Unset optionals must be absent, not null or zero.
	for _, field := range []string{"temperature", "top_p", "max_output_tokens", "store", "stream", "tools", "metadata"} {
		if strings.Contains(string(data), `"`+field+`"`) {
			t.Errorf("unset field %q should be omitted, got %s", field, data)
		}
	}
}

func TestRequestZeroDistinctFromUnset(t *testing.T) {
	req := Request{
		Model:       ModelGPT4o,
		Input:       TextInput("hi"),
		Temperature: float64Ptr(0),
	}

	data, err := json.Marshal(&req)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !strings.Contains(string(data), `"temperature":0`) {
		t.Errorf("explicit zero temperature should be encoded, got %s", data)
	}
}

func TestRequestRoundTrip(t *testing.T) {
	req := Request{
		Model:           ModelGPT4o,
		Input:           ItemsInput(UserMessage("hi")),
		Include:         []Include{IncludeFileSearchResults},
		Instructions:    "be terse",
		MaxOutputTokens: intPtr(256),
		Metadata:        map[string]string{"trace": "abc"},
		Reasoning:       &ReasoningConfig{Effort: ReasoningEffortHigh},
		ServiceTier:     ServiceTierDefault,
		Store:           boolPtr(true),
		Temperature:     float64Ptr(0.7),
		Text:            JSONSchemaFormat("answer", json.RawMessage(`{"type":"object"}`), true),
		ToolChoice:      choicePtr(ToolChoiceAuto),
		Tools:           []Tool{NewFunctionTool("f", "", json.RawMessage(`{}`), false)},
		TopP:            float64Ptr(0.9),
		Truncation:      TruncationAuto,
		User:            "user-1",
	}

	got := roundTrip(t, req)
	assertDeepEqual(t, got, req)
}

func choicePtr(tc ToolChoice) *ToolChoice { return &tc }
