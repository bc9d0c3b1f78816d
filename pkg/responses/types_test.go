package responses

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

// roundTrip marshals v to JSON, then unmarshals back into a new value of the
// same type and returns it. It fails the test on any error.
func roundTrip[T any](t *testing.T, v T) T {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var got T
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal error: %v\nJSON: %s", err, data)
	}
	return got
}

// assertDeepEqual fails the test if got and want are not deeply equal.
func assertDeepEqual(t *testing.T, got, want any) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round-trip mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestItemRoundTrip
// ---------------------------------------------------------------------------

func TestItemRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		item Item
	}{
		{
			name: "message/user with input text",
			item: Item{
				ID:     "item_001",
				Type:   ItemTypeMessage,
				Status: ItemStatusCompleted,
				Message: &MessageData{
					Role: RoleUser,
					Content: []ContentPart{
						{Type: ContentPartInputText, Text: "Hello, world!"},
					},
				},
			},
		},
		{
			name: "message/assistant with output text and annotations",
			item: Item{
				ID:     "item_002",
				Type:   ItemTypeMessage,
				Status: ItemStatusCompleted,
				Message: &MessageData{
					Role: RoleAssistant,
					Content: []ContentPart{
						{
							Type: ContentPartOutputText,
							Text: "Here is the answer.",
							Annotations: []Annotation{
								{Type: "url_citation", Text: "source", StartIndex: 0, EndIndex: 6},
							},
						},
					},
				},
			},
		},
		{
			name: "function_call",
			item: Item{
				ID:     "item_003",
				Type:   ItemTypeFunctionCall,
				Status: ItemStatusCompleted,
				FunctionCall: &FunctionCallData{
					Name:      "get_weather",
					CallID:    "call_abc123",
					Arguments: `{"location":"Berlin"}`,
				},
			},
		},
		{
			name: "function_call_output",
			item: Item{
				ID:     "item_004",
				Type:   ItemTypeFunctionCallOutput,
				Status: ItemStatusCompleted,
				FunctionCallOutput: &FunctionCallOutputData{
					CallID: "call_abc123",
					Output: `{"temp":20,"unit":"celsius"}`,
				},
			},
		},
		{
			name: "reasoning",
			item: Item{
				ID:     "item_005",
				Type:   ItemTypeReasoning,
				Status: ItemStatusCompleted,
				Reasoning: &ReasoningData{
					Summary: "Considered the options.",
				},
			},
		},
		{
			name: "file_search_call",
			item: Item{
				ID:     "item_006",
				Type:   ItemTypeFileSearchCall,
				Status: ItemStatusCompleted,
				FileSearchCall: &FileSearchCallData{
					Queries: []string{"quarterly report"},
					Results: json.RawMessage(`[{"file_id":"file_1","score":0.92}]`),
				},
			},
		},
		{
			name: "computer_call",
			item: Item{
				ID:     "item_007",
				Type:   ItemTypeComputerCall,
				Status: ItemStatusInProgress,
				ComputerCall: &ComputerCallData{
					CallID: "call_xyz",
					Action: json.RawMessage(`{"type":"click","x":10,"y":20}`),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundTrip(t, tt.item)
			assertDeepEqual(t, got, tt.item)
		})
	}
}

func TestItemReferenceWireShape(t *testing.T) {
	item := ItemReference("resp_abc123")

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	// The referenced ID occupies the top-level id field.
	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Unmarshal wire error: %v", err)
	}
	if wire["type"] != "item_reference" {
		t.Errorf("type = %v, want item_reference", wire["type"])
	}
	if wire["id"] != "resp_abc123" {
		t.Errorf("id = %v, want resp_abc123", wire["id"])
	}

	got := roundTrip(t, item)
	assertDeepEqual(t, got, item)
}

func TestItemMessageStringContent(t *testing.T) {
	// Message content comes in the same string-or-array union shape as the
	// request input; the string form decodes to a single input_text part.
	payload := `{"id":"item_1","type":"message","role":"user","content":"Hi"}`

	var item Item
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if item.Message == nil {
		t.Fatal("Message data not set")
	}
	if item.Message.Role != RoleUser {
		t.Errorf("Role = %q, want user", item.Message.Role)
	}
	want := []ContentPart{TextPart("Hi")}
	assertDeepEqual(t, item.Message.Content, want)
}

func TestItemMessageContentRejectsOtherShapes(t *testing.T) {
	payload := `{"type":"message","role":"user","content":42}`

	var item Item
	if err := json.Unmarshal([]byte(payload), &item); err == nil {
		t.Fatal("expected error for numeric message content")
	}
}

func TestItemUnknownTypePreserved(t *testing.T) {
	// An item type this client does not know must survive decode/encode
	// byte-for-byte, including fields it has no struct for.
	payload := `{"type":"acme:telemetry","id":"item_x","vendor_data":{"samples":[1,2,3]},"note":"keep me"}`

	var item Item
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if item.Type != "acme:telemetry" {
		t.Errorf("Type = %q, want acme:telemetry", item.Type)
	}
	if item.ID != "item_x" {
		t.Errorf("ID = %q, want item_x", item.ID)
	}
	if item.Message != nil || item.FunctionCall != nil {
		t.Error("no variant data should be set for unknown types")
	}

	out, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(out) != payload {
		t.Errorf("re-encoded payload differs\n got: %s\nwant: %s", out, payload)
	}
}

func TestItemUnknownStatusSkipsEnumCheck(t *testing.T) {
	// Unknown item types carry arbitrary payloads; a status value outside
	// the closed enum must not fail the decode.
	payload := `{"type":"acme:custom","status":"percolating"}`

	var item Item
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if len(item.Raw) == 0 {
		t.Error("Raw should hold the original payload")
	}
}

func TestItemStrictStatus(t *testing.T) {
	payload := `{"type":"message","role":"user","content":[],"status":"percolating"}`

	var item Item
	err := json.Unmarshal([]byte(payload), &item)
	if err == nil {
		t.Fatal("expected error for unknown status on a known item type")
	}
	if !strings.Contains(err.Error(), "percolating") {
		t.Errorf("error should name the offending value, got: %v", err)
	}
}

func TestRoleStrict(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{`"user"`, RoleUser, false},
		{`"system"`, RoleSystem, false},
		{`"assistant"`, RoleAssistant, false},
		{`"developer"`, RoleDeveloper, false},
		{`"moderator"`, "", true},
		{`""`, "", true},
		{`42`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var r Role
			err := json.Unmarshal([]byte(tt.input), &r)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			if r != tt.want {
				t.Errorf("Role = %q, want %q", r, tt.want)
			}
		})
	}
}

func TestItemStatusStrict(t *testing.T) {
	tests := []struct {
		input   string
		want    ItemStatus
		wantErr bool
	}{
		{`"in_progress"`, ItemStatusInProgress, false},
		{`"incomplete"`, ItemStatusIncomplete, false},
		{`"completed"`, ItemStatusCompleted, false},
		{`"failed"`, ItemStatusFailed, false},
		{`""`, "", false},
		{`"done"`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var s ItemStatus
			err := json.Unmarshal([]byte(tt.input), &s)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			if s != tt.want {
				t.Errorf("ItemStatus = %q, want %q", s, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Input union
// ---------------------------------------------------------------------------

func TestInputTextForm(t *testing.T) {
	in := TextInput("What is the capital of France?")

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `"What is the capital of France?"` {
		t.Errorf("text input should encode as a JSON string, got %s", data)
	}

	got := roundTrip(t, in)
	assertDeepEqual(t, got, in)
	if got.IsItems() {
		t.Error("text input should not report IsItems")
	}
}

func TestInputItemsForm(t *testing.T) {
	in := ItemsInput(
		SystemMessage("You are terse."),
		UserMessage("Hi"),
	)

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if data[0] != '[' {
		t.Errorf("items input should encode as a JSON array, got %s", data)
	}

	got := roundTrip(t, in)
	assertDeepEqual(t, got, in)
	if !got.IsItems() {
		t.Error("items input should report IsItems")
	}
}

func TestInputEmptyItemsDistinctFromText(t *testing.T) {
	// An explicitly empty item list is a valid input, distinct from empty text.
	in := ItemsInput()

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("empty items should encode as [], got %s", data)
	}

	var got Input
	if err := json.Unmarshal([]byte(`[]`), &got); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !got.IsItems() {
		t.Error("decoded [] should report IsItems")
	}
	if len(got.Items) != 0 {
		t.Errorf("decoded [] should have zero items, got %d", len(got.Items))
	}
}

func TestInputBothFormsRejected(t *testing.T) {
	in := Input{Text: "hi", Items: []Item{UserMessage("hi")}}
	if _, err := json.Marshal(in); err == nil {
		t.Error("expected error when both input forms are set")
	}
}

func TestInputRejectsOtherJSONKinds(t *testing.T) {
	for _, payload := range []string{`42`, `{"text":"hi"}`, `true`} {
		var in Input
		if err := json.Unmarshal([]byte(payload), &in); err == nil {
			t.Errorf("expected error for %s", payload)
		}
	}
}

// ---------------------------------------------------------------------------
// ContentPart
// ---------------------------------------------------------------------------

func TestContentPartRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		part ContentPart
	}{
		{"input_text", TextPart("hello")},
		{"output_text bare", OutputTextPart("answer")},
		{
			"output_text with annotations",
			ContentPart{
				Type: ContentPartOutputText,
				Text: "cited",
				Annotations: []Annotation{
					{Type: "file_citation", StartIndex: 1, EndIndex: 4},
				},
			},
		},
		{"input_image url", ImagePart("https://example.com/cat.png", ImageDetailHigh)},
		{"input_image default detail", ImagePart("https://example.com/cat.png", "")},
		{"input_file", FilePart("file_abc")},
		{
			"input_file inline data",
			ContentPart{Type: ContentPartInputFile, FileData: "aGVsbG8=", Filename: "hello.txt"},
		},
		{"refusal", ContentPart{Type: ContentPartRefusal, Refusal: "I can't help with that."}},
		{"summary_text", ContentPart{Type: ContentPartSummaryText, Text: "summary"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundTrip(t, tt.part)
			// output_text normalizes nil annotations to an empty array.
			want := tt.part
			if want.Type == ContentPartOutputText && want.Annotations == nil {
				want.Annotations = []Annotation{}
			}
			assertDeepEqual(t, got, want)
		})
	}
}

func TestContentPartOutputTextAnnotationsNeverNull(t *testing.T) {
	data, err := json.Marshal(OutputTextPart("x"))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !strings.Contains(string(data), `"annotations":[]`) {
		t.Errorf("output_text should carry an empty annotations array, got %s", data)
	}
}

func TestContentPartUnknownTypePreserved(t *testing.T) {
	payload := `{"type":"input_audio","audio_url":"https://example.com/a.wav","format":"wav"}`

	var part ContentPart
	if err := json.Unmarshal([]byte(payload), &part); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if part.Type != "input_audio" {
		t.Errorf("Type = %q, want input_audio", part.Type)
	}

	out, err := json.Marshal(part)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(out) != payload {
		t.Errorf("re-encoded payload differs\n got: %s\nwant: %s", out, payload)
	}
}

func TestMessageBuilders(t *testing.T) {
	user := UserMessage("hi")
	if user.Type != ItemTypeMessage || user.Message.Role != RoleUser {
		t.Errorf("UserMessage built %+v", user)
	}
	if user.Message.Content[0].Type != ContentPartInputText {
		t.Errorf("UserMessage content part = %q", user.Message.Content[0].Type)
	}

	system := SystemMessage("rules")
	if system.Message.Role != RoleSystem {
		t.Errorf("SystemMessage role = %q", system.Message.Role)
	}

	assistant := AssistantMessage("prior answer")
	if assistant.Message.Role != RoleAssistant {
		t.Errorf("AssistantMessage role = %q", assistant.Message.Role)
	}
	if assistant.Message.Content[0].Type != ContentPartOutputText {
		t.Errorf("AssistantMessage content part = %q", assistant.Message.Content[0].Type)
	}

	fco := FunctionCallOutput("call_1", `{"ok":true}`)
	if fco.Type != ItemTypeFunctionCallOutput || fco.FunctionCallOutput.CallID != "call_1" {
		t.Errorf("FunctionCallOutput built %+v", fco)
	}
}
