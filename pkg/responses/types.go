package responses

import (
	"encoding/json"
	"fmt"
)

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model identifies the model used to generate a response. The set of valid
// values is open: any string the service accepts is a valid Model, the
// constants below merely name well-known ones.
type Model string

const (
	ModelGPT4o             Model = "gpt-4o"
	ModelGPT4oMini         Model = "gpt-4o-mini"
	ModelGPT4              Model = "gpt-4"
	ModelGPT45Preview      Model = "gpt-4.5-preview"
	ModelGPT35Turbo        Model = "gpt-3.5-turbo"
	ModelO1                Model = "o1"
	ModelO1Mini            Model = "o1-mini"
	ModelO1Pro             Model = "o1-pro"
	ModelO3Mini            Model = "o3-mini"
	ModelComputerUse       Model = "computer-use-preview"
)

// ---------------------------------------------------------------------------
// Closed enums: Role, ItemStatus, ResponseStatus
// ---------------------------------------------------------------------------

// Role represents the role of a message sender. The member set is closed:
// decoding an unknown role fails, since a silent fallback would hide a real
// contract break.
type Role string

const (
	RoleUser      Role = "user"
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleDeveloper Role = "developer"
)

// UnmarshalJSON rejects values outside the known role set.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch Role(s) {
	case RoleUser, RoleSystem, RoleAssistant, RoleDeveloper:
		*r = Role(s)
		return nil
	}
	return fmt.Errorf("unknown role %q", s)
}

// ItemStatus represents the processing status of an item.
type ItemStatus string

const (
	ItemStatusInProgress ItemStatus = "in_progress"
	ItemStatusIncomplete ItemStatus = "incomplete"
	ItemStatusCompleted  ItemStatus = "completed"
	ItemStatusFailed     ItemStatus = "failed"
)

// UnmarshalJSON rejects values outside the known item status set. An empty
// string is allowed: input items commonly omit status.
func (s *ItemStatus) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch ItemStatus(v) {
	case "", ItemStatusInProgress, ItemStatusIncomplete, ItemStatusCompleted, ItemStatusFailed:
		*s = ItemStatus(v)
		return nil
	}
	return fmt.Errorf("unknown item status %q", v)
}

// ---------------------------------------------------------------------------
// Input: string or item list
// ---------------------------------------------------------------------------

// Input is the request input: either plain text (equivalent to a single
// user message) or an ordered list of input items. Exactly one form may be
// active; setting both is an InvalidRequestError at encode time.
//
// On the wire, text input is a JSON string and item input is a JSON array.
type Input struct {
	// Text is the plain-text form. Meaningful only when Items is nil.
	Text string

	// Items is the structured form. A non-nil empty slice is a valid,
	// explicitly empty item list, distinct from the text form.
	Items []Item
}

// TextInput returns an Input carrying plain text.
func TextInput(text string) Input {
	return Input{Text: text}
}

// ItemsInput returns an Input carrying structured input items.
func ItemsInput(items ...Item) Input {
	if items == nil {
		items = []Item{}
	}
	return Input{Items: items}
}

// IsItems reports whether the structured form is active.
func (in Input) IsItems() bool { return in.Items != nil }

// MarshalJSON serializes the active form. Both forms set is an error; the
// transcoder reports it as an InvalidRequestError before marshalling, this
// is the last line of defense.
func (in Input) MarshalJSON() ([]byte, error) {
	if in.Items != nil {
		if in.Text != "" {
			return nil, fmt.Errorf("input has both text and items set")
		}
		return json.Marshal(in.Items)
	}
	return json.Marshal(in.Text)
}

// UnmarshalJSON deserializes either a JSON string or a JSON item array.
func (in *Input) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		in.Text = s
		in.Items = nil
		return nil
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("input must be a string or an item array: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	in.Text = ""
	in.Items = items
	return nil
}

// ---------------------------------------------------------------------------
// Item: the shared input/output item family
// ---------------------------------------------------------------------------

// ItemType represents the type tag of an item.
type ItemType string

const (
	ItemTypeMessage            ItemType = "message"
	ItemTypeFunctionCall       ItemType = "function_call"
	ItemTypeFunctionCallOutput ItemType = "function_call_output"
	ItemTypeReasoning          ItemType = "reasoning"
	ItemTypeItemReference      ItemType = "item_reference"
	ItemTypeFileSearchCall     ItemType = "file_search_call"
	ItemTypeWebSearchCall      ItemType = "web_search_call"
	ItemTypeComputerCall       ItemType = "computer_call"
)

// knownItemType reports whether t is a type this client decodes structurally.
func knownItemType(t ItemType) bool {
	switch t {
	case ItemTypeMessage, ItemTypeFunctionCall, ItemTypeFunctionCallOutput,
		ItemTypeReasoning, ItemTypeItemReference, ItemTypeFileSearchCall,
		ItemTypeWebSearchCall, ItemTypeComputerCall:
		return true
	}
	return false
}

// Item represents a single item in a conversation: a message, a tool call or
// its output, a reasoning step, a reference to a stored item, or one of the
// built-in tool call records. The same type describes request input items
// and response output items.
//
// Item is a discriminated union: Type selects which data pointer is set.
// Items with a type this client does not know decode into Raw, which
// preserves the original payload verbatim and re-encodes byte-for-byte.
type Item struct {
	ID     string
	Type   ItemType
	Status ItemStatus

	Message            *MessageData
	FunctionCall       *FunctionCallData
	FunctionCallOutput *FunctionCallOutputData
	Reasoning          *ReasoningData
	ItemReference      *ItemReferenceData
	FileSearchCall     *FileSearchCallData
	WebSearchCall      *WebSearchCallData
	ComputerCall       *ComputerCallData

	// Raw holds the original payload for unrecognized item types.
	Raw json.RawMessage
}

// MessageData holds the data specific to a message item. On the wire,
// content is either a plain string or a content part array; the string form
// decodes to a single input_text part.
type MessageData struct {
	Role    Role
	Content []ContentPart
}

// decodeMessageContent deserializes a message content field, which comes in
// the same string-or-array union shape as Input.
func decodeMessageContent(data json.RawMessage) ([]ContentPart, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return []ContentPart{TextPart(s)}, nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil, fmt.Errorf("message content must be a string or a part array: %w", err)
	}
	return parts, nil
}

// FunctionCallData holds the data specific to a function call item.
type FunctionCallData struct {
	CallID    string `json:"call_id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// FunctionCallOutputData holds the data specific to a function call output item.
type FunctionCallOutputData struct {
	CallID string `json:"call_id"`
	Output string `json:"output"`
}

// ReasoningData holds the data specific to a reasoning item.
type ReasoningData struct {
	Content          string `json:"content,omitempty"`
	EncryptedContent string `json:"encrypted_content,omitempty"`
	Summary          string `json:"summary,omitempty"`
}

// ItemReferenceData references a previously stored item by ID.
type ItemReferenceData struct {
	ID string `json:"id"`
}

// FileSearchCallData records a built-in file search invocation.
type FileSearchCallData struct {
	Queries []string        `json:"queries,omitempty"`
	Results json.RawMessage `json:"results,omitempty"`
}

// WebSearchCallData records a built-in web search invocation.
type WebSearchCallData struct {
	Action json.RawMessage `json:"action,omitempty"`
}

// ComputerCallData records a built-in computer use invocation.
type ComputerCallData struct {
	CallID              string          `json:"call_id"`
	Action              json.RawMessage `json:"action,omitempty"`
	PendingSafetyChecks json.RawMessage `json:"pending_safety_checks,omitempty"`
}

// UserMessage builds a message item with the user role and a single text part.
func UserMessage(text string) Item {
	return Message(RoleUser, TextPart(text))
}

// SystemMessage builds a message item with the system role and a single text part.
func SystemMessage(text string) Item {
	return Message(RoleSystem, TextPart(text))
}

// AssistantMessage builds a message item with the assistant role and a single
// output text part, as produced by the model in a previous turn.
func AssistantMessage(text string) Item {
	return Message(RoleAssistant, OutputTextPart(text))
}

// Message builds a message item from a role and content parts.
func Message(role Role, parts ...ContentPart) Item {
	return Item{
		Type:    ItemTypeMessage,
		Message: &MessageData{Role: role, Content: parts},
	}
}

// FunctionCallOutput builds a function_call_output item carrying a tool
// result for the given call ID.
func FunctionCallOutput(callID, output string) Item {
	return Item{
		Type:               ItemTypeFunctionCallOutput,
		FunctionCallOutput: &FunctionCallOutputData{CallID: callID, Output: output},
	}
}

// ItemReference builds an item_reference item pointing at a stored item.
func ItemReference(id string) Item {
	return Item{
		Type:          ItemTypeItemReference,
		ItemReference: &ItemReferenceData{ID: id},
	}
}

// itemWireBase contains fields common to all item types. Status and ID are
// omitted when empty: caller-built input items usually carry neither.
type itemWireBase struct {
	ID     string     `json:"id,omitempty"`
	Type   ItemType   `json:"type"`
	Status ItemStatus `json:"status,omitempty"`
}

// MarshalJSON serializes an Item to the flat wire format: type-specific
// fields sit at the top level next to id, type, and status.
func (item Item) MarshalJSON() ([]byte, error) {
	if !knownItemType(item.Type) {
		if len(item.Raw) > 0 {
			return item.Raw, nil
		}
		return json.Marshal(itemWireBase{ID: item.ID, Type: item.Type, Status: item.Status})
	}

	base := itemWireBase{ID: item.ID, Type: item.Type, Status: item.Status}

	switch item.Type {
	case ItemTypeMessage:
		w := struct {
			itemWireBase
			Role    Role          `json:"role"`
			Content []ContentPart `json:"content"`
		}{itemWireBase: base}
		if item.Message != nil {
			w.Role = item.Message.Role
			w.Content = item.Message.Content
		}
		if w.Content == nil {
			w.Content = []ContentPart{}
		}
		return json.Marshal(w)

	case ItemTypeFunctionCall:
		w := struct {
			itemWireBase
			*FunctionCallData
		}{base, item.FunctionCall}
		return json.Marshal(w)

	case ItemTypeFunctionCallOutput:
		w := struct {
			itemWireBase
			*FunctionCallOutputData
		}{base, item.FunctionCallOutput}
		return json.Marshal(w)

	case ItemTypeReasoning:
		w := struct {
			itemWireBase
			*ReasoningData
		}{base, item.Reasoning}
		return json.Marshal(w)

	case ItemTypeItemReference:
		// The item_reference wire shape is {type, id}; the referenced ID
		// occupies the top-level id field.
		w := itemWireBase{Type: item.Type}
		if item.ItemReference != nil {
			w.ID = item.ItemReference.ID
		}
		return json.Marshal(w)

	case ItemTypeFileSearchCall:
		w := struct {
			itemWireBase
			*FileSearchCallData
		}{base, item.FileSearchCall}
		return json.Marshal(w)

	case ItemTypeWebSearchCall:
		w := struct {
			itemWireBase
			*WebSearchCallData
		}{base, item.WebSearchCall}
		return json.Marshal(w)

	case ItemTypeComputerCall:
		w := struct {
			itemWireBase
			*ComputerCallData
		}{base, item.ComputerCall}
		return json.Marshal(w)
	}

	return json.Marshal(base)
}

// UnmarshalJSON deserializes an Item from the flat wire format. The type tag
// is read first and decoding dispatches on it; unknown tags preserve the
// payload in Raw instead of failing.
func (item *Item) UnmarshalJSON(data []byte) error {
	// The tag is read before anything else; status is decoded separately so
	// unknown item types never trip the closed ItemStatus enum.
	var tag struct {
		ID   string   `json:"id"`
		Type ItemType `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}

	*item = Item{ID: tag.ID, Type: tag.Type}

	if !knownItemType(tag.Type) {
		item.Raw = append(json.RawMessage(nil), data...)
		return nil
	}

	var status struct {
		Status ItemStatus `json:"status"`
	}
	if err := json.Unmarshal(data, &status); err != nil {
		return err
	}
	item.Status = status.Status

	switch tag.Type {
	case ItemTypeMessage:
		var w struct {
			Role    Role            `json:"role"`
			Content json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		content, err := decodeMessageContent(w.Content)
		if err != nil {
			return err
		}
		item.Message = &MessageData{Role: w.Role, Content: content}

	case ItemTypeFunctionCall:
		var d FunctionCallData
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		item.FunctionCall = &d

	case ItemTypeFunctionCallOutput:
		var d FunctionCallOutputData
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		item.FunctionCallOutput = &d

	case ItemTypeReasoning:
		var d ReasoningData
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		item.Reasoning = &d

	case ItemTypeItemReference:
		item.ItemReference = &ItemReferenceData{ID: tag.ID}
		item.ID = ""

	case ItemTypeFileSearchCall:
		var d FileSearchCallData
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		item.FileSearchCall = &d

	case ItemTypeWebSearchCall:
		var d WebSearchCallData
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		item.WebSearchCall = &d

	case ItemTypeComputerCall:
		var d ComputerCallData
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		item.ComputerCall = &d
	}

	return nil
}

// ---------------------------------------------------------------------------
// ContentPart
// ---------------------------------------------------------------------------

// ContentPartType represents the type tag of a content part.
type ContentPartType string

const (
	ContentPartInputText   ContentPartType = "input_text"
	ContentPartInputImage  ContentPartType = "input_image"
	ContentPartInputFile   ContentPartType = "input_file"
	ContentPartOutputText  ContentPartType = "output_text"
	ContentPartRefusal     ContentPartType = "refusal"
	ContentPartSummaryText ContentPartType = "summary_text"
)

func knownContentPartType(t ContentPartType) bool {
	switch t {
	case ContentPartInputText, ContentPartInputImage, ContentPartInputFile,
		ContentPartOutputText, ContentPartRefusal, ContentPartSummaryText:
		return true
	}
	return false
}

// ImageDetail is the detail level of an image sent to the model.
type ImageDetail string

const (
	ImageDetailAuto   ImageDetail = "auto"
	ImageDetailLow    ImageDetail = "low"
	ImageDetailMedium ImageDetail = "medium"
	ImageDetailHigh   ImageDetail = "high"
)

// ContentPart is one segment of message content. Type selects which fields
// are meaningful; unknown types preserve the original payload in Raw.
type ContentPart struct {
	Type ContentPartType

	// Text carries input_text, output_text, and summary_text content.
	Text string

	// Annotations carries output_text annotations, such as citations.
	Annotations []Annotation

	// Detail, FileID, and ImageURL carry input_image fields.
	Detail   ImageDetail
	ImageURL string

	// FileID carries input_image and input_file file references.
	FileID string

	// FileData and Filename carry input_file fields.
	FileData string
	Filename string

	// Refusal carries the refusal message of a refusal part.
	Refusal string

	// Raw holds the original payload for unrecognized part types.
	Raw json.RawMessage
}

// Annotation represents an annotation on output text, such as a citation.
// URL and Title carry url_citation fields, FileID carries file_citation
// and file_path fields.
type Annotation struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	StartIndex int    `json:"start_index,omitempty"`
	EndIndex   int    `json:"end_index,omitempty"`
	URL        string `json:"url,omitempty"`
	Title      string `json:"title,omitempty"`
	FileID     string `json:"file_id,omitempty"`
	Index      int    `json:"index,omitempty"`
}

// TextPart builds an input_text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: ContentPartInputText, Text: text}
}

// OutputTextPart builds an output_text content part.
func OutputTextPart(text string) ContentPart {
	return ContentPart{Type: ContentPartOutputText, Text: text}
}

// ImagePart builds an input_image content part referencing a URL (a fully
// qualified URL or a base64 data URL).
func ImagePart(url string, detail ImageDetail) ContentPart {
	if detail == "" {
		detail = ImageDetailAuto
	}
	return ContentPart{Type: ContentPartInputImage, ImageURL: url, Detail: detail}
}

// FilePart builds an input_file content part referencing an uploaded file.
func FilePart(fileID string) ContentPart {
	return ContentPart{Type: ContentPartInputFile, FileID: fileID}
}

// MarshalJSON serializes a ContentPart into the wire shape fixed by its type.
func (p ContentPart) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case ContentPartInputText, ContentPartSummaryText:
		return json.Marshal(struct {
			Type ContentPartType `json:"type"`
			Text string          `json:"text"`
		}{p.Type, p.Text})

	case ContentPartOutputText:
		// Annotations are always an array on the wire, never null.
		annotations := p.Annotations
		if annotations == nil {
			annotations = []Annotation{}
		}
		return json.Marshal(struct {
			Type        ContentPartType `json:"type"`
			Text        string          `json:"text"`
			Annotations []Annotation    `json:"annotations"`
		}{p.Type, p.Text, annotations})

	case ContentPartInputImage:
		return json.Marshal(struct {
			Type     ContentPartType `json:"type"`
			Detail   ImageDetail     `json:"detail"`
			FileID   string          `json:"file_id,omitempty"`
			ImageURL string          `json:"image_url,omitempty"`
		}{p.Type, p.Detail, p.FileID, p.ImageURL})

	case ContentPartInputFile:
		return json.Marshal(struct {
			Type     ContentPartType `json:"type"`
			FileData string          `json:"file_data,omitempty"`
			FileID   string          `json:"file_id,omitempty"`
			Filename string          `json:"filename,omitempty"`
		}{p.Type, p.FileData, p.FileID, p.Filename})

	case ContentPartRefusal:
		return json.Marshal(struct {
			Type    ContentPartType `json:"type"`
			Refusal string          `json:"refusal"`
		}{p.Type, p.Refusal})
	}

	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return json.Marshal(struct {
		Type ContentPartType `json:"type"`
	}{p.Type})
}

// UnmarshalJSON deserializes a ContentPart, dispatching on the type tag.
// Unknown tags preserve the payload in Raw.
func (p *ContentPart) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type ContentPartType `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}

	*p = ContentPart{Type: tag.Type}

	if !knownContentPartType(tag.Type) {
		p.Raw = append(json.RawMessage(nil), data...)
		return nil
	}

	var w struct {
		Text        string       `json:"text"`
		Annotations []Annotation `json:"annotations"`
		Detail      ImageDetail  `json:"detail"`
		FileID      string       `json:"file_id"`
		ImageURL    string       `json:"image_url"`
		FileData    string       `json:"file_data"`
		Filename    string       `json:"filename"`
		Refusal     string       `json:"refusal"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch tag.Type {
	case ContentPartInputText, ContentPartSummaryText:
		p.Text = w.Text
	case ContentPartOutputText:
		p.Text = w.Text
		p.Annotations = w.Annotations
	case ContentPartInputImage:
		p.Detail = w.Detail
		p.FileID = w.FileID
		p.ImageURL = w.ImageURL
	case ContentPartInputFile:
		p.FileData = w.FileData
		p.FileID = w.FileID
		p.Filename = w.Filename
	case ContentPartRefusal:
		p.Refusal = w.Refusal
	}

	return nil
}
