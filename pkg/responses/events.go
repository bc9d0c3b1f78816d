package responses

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// EventType identifies the type of a streaming event.
type EventType string

// Lifecycle events carry a snapshot of the whole response.
const (
	EventResponseCreated    EventType = "response.created"
	EventResponseQueued     EventType = "response.queued"
	EventResponseInProgress EventType = "response.in_progress"
	EventResponseCompleted  EventType = "response.completed"
	EventResponseFailed     EventType = "response.failed"
	EventResponseIncomplete EventType = "response.incomplete"
	EventResponseCancelled  EventType = "response.cancelled"
)

// Item and content events convey incremental output.
const (
	EventOutputItemAdded       EventType = "response.output_item.added"
	EventOutputItemDone        EventType = "response.output_item.done"
	EventContentPartAdded      EventType = "response.content_part.added"
	EventContentPartDone       EventType = "response.content_part.done"
	EventOutputTextDelta       EventType = "response.output_text.delta"
	EventOutputTextDone        EventType = "response.output_text.done"
	EventOutputTextAnnotation  EventType = "response.output_text.annotation.added"
	EventRefusalDelta          EventType = "response.refusal.delta"
	EventRefusalDone           EventType = "response.refusal.done"
	EventFunctionCallArgsDelta EventType = "response.function_call_arguments.delta"
	EventFunctionCallArgsDone  EventType = "response.function_call_arguments.done"
)

// Built-in tool progress events.
const (
	EventFileSearchInProgress EventType = "response.file_search_call.in_progress"
	EventFileSearchSearching  EventType = "response.file_search_call.searching"
	EventFileSearchCompleted  EventType = "response.file_search_call.completed"
	EventWebSearchInProgress  EventType = "response.web_search_call.in_progress"
	EventWebSearchSearching   EventType = "response.web_search_call.searching"
	EventWebSearchCompleted   EventType = "response.web_search_call.completed"
)

// EventError is emitted by the service when the stream fails.
const EventError EventType = "error"

var knownEventTypes = map[EventType]bool{
	EventResponseCreated:       true,
	EventResponseQueued:        true,
	EventResponseInProgress:    true,
	EventResponseCompleted:     true,
	EventResponseFailed:        true,
	EventResponseIncomplete:    true,
	EventResponseCancelled:     true,
	EventOutputItemAdded:       true,
	EventOutputItemDone:        true,
	EventContentPartAdded:      true,
	EventContentPartDone:       true,
	EventOutputTextDelta:       true,
	EventOutputTextDone:        true,
	EventOutputTextAnnotation:  true,
	EventRefusalDelta:          true,
	EventRefusalDone:           true,
	EventFunctionCallArgsDelta: true,
	EventFunctionCallArgsDone:  true,
	EventFileSearchInProgress:  true,
	EventFileSearchSearching:   true,
	EventFileSearchCompleted:   true,
	EventWebSearchInProgress:   true,
	EventWebSearchSearching:    true,
	EventWebSearchCompleted:    true,
	EventError:                 true,
}

// Known reports whether t is an event type this client decodes structurally.
func (t EventType) Known() bool { return knownEventTypes[t] }

// Terminal reports whether the event ends the stream: after a terminal
// event no further frames are read, even if more bytes arrive.
func (t EventType) Terminal() bool {
	switch t {
	case EventResponseCompleted, EventResponseFailed,
		EventResponseIncomplete, EventResponseCancelled, EventError:
		return true
	}
	return false
}

// Event is a single typed streaming event. Which fields are populated
// depends on Type: lifecycle events carry Response, item events carry Item
// and OutputIndex, content events additionally carry ContentIndex, delta
// events carry Delta, and the error event carries Code/Message/Param.
//
// Events with a type this client does not know carry the raw payload in
// Raw and nothing else; they are yielded rather than treated as errors so
// that new server-side event types degrade gracefully.
type Event struct {
	Type           EventType
	SequenceNumber int

	Response *Response
	Item     *Item
	Part     *ContentPart

	Delta     string
	Text      string
	Arguments string
	Refusal   string

	Annotation      *Annotation
	AnnotationIndex int

	ItemID       string
	OutputIndex  int
	ContentIndex int
	CallID       string
	Name         string

	// Code, Message, and Param describe an error event.
	Code    string
	Message string
	Param   string

	// Raw holds the original payload for unrecognized event types.
	Raw json.RawMessage
}

// eventWire is the flat JSON shape shared by all known event types.
type eventWire struct {
	Type            EventType    `json:"type"`
	SequenceNumber  int          `json:"sequence_number,omitempty"`
	Response        *Response    `json:"response,omitempty"`
	Item            *Item        `json:"item,omitempty"`
	Part            *ContentPart `json:"part,omitempty"`
	Delta           string       `json:"delta,omitempty"`
	Text            string       `json:"text,omitempty"`
	Arguments       string       `json:"arguments,omitempty"`
	Refusal         string       `json:"refusal,omitempty"`
	Annotation      *Annotation  `json:"annotation,omitempty"`
	AnnotationIndex int          `json:"annotation_index,omitempty"`
	ItemID          string       `json:"item_id,omitempty"`
	OutputIndex     int          `json:"output_index,omitempty"`
	ContentIndex    int          `json:"content_index,omitempty"`
	CallID          string       `json:"call_id,omitempty"`
	Name            string       `json:"name,omitempty"`
	Code            string       `json:"code,omitempty"`
	Message         string       `json:"message,omitempty"`
	Param           string       `json:"param,omitempty"`
}

// MarshalJSON serializes known events into the flat wire shape and returns
// unrecognized events' raw payload verbatim.
func (e Event) MarshalJSON() ([]byte, error) {
	if !e.Type.Known() && len(e.Raw) > 0 {
		return e.Raw, nil
	}
	return json.Marshal(eventWire{
		Type:            e.Type,
		SequenceNumber:  e.SequenceNumber,
		Response:        e.Response,
		Item:            e.Item,
		Part:            e.Part,
		Delta:           e.Delta,
		Text:            e.Text,
		Arguments:       e.Arguments,
		Refusal:         e.Refusal,
		Annotation:      e.Annotation,
		AnnotationIndex: e.AnnotationIndex,
		ItemID:          e.ItemID,
		OutputIndex:     e.OutputIndex,
		ContentIndex:    e.ContentIndex,
		CallID:          e.CallID,
		Name:            e.Name,
		Code:            e.Code,
		Message:         e.Message,
		Param:           e.Param,
	})
}

// UnmarshalJSON deserializes an Event from a bare payload (no SSE label
// available). The stream decoder uses decodeEvent instead so it can
// cross-check the SSE event label.
func (e *Event) UnmarshalJSON(data []byte) error {
	ev, err := decodeEvent("", data)
	if err != nil {
		return err
	}
	*e = ev
	return nil
}

// decodeEvent parses one event payload. label is the SSE "event:" field and
// may be empty; when both label and payload tag are present they must agree.
func decodeEvent(label string, data []byte) (Event, error) {
	tag := EventType(gjson.GetBytes(data, "type").String())

	if label != "" && tag != "" && EventType(label) != tag {
		return Event{}, &ProtocolMismatchError{
			Reason: "event label " + label + " disagrees with payload type " + string(tag),
			Raw:    append([]byte(nil), data...),
		}
	}

	typ := tag
	if typ == "" {
		typ = EventType(label)
	}

	if !typ.Known() {
		return Event{Type: typ, Raw: append(json.RawMessage(nil), data...)}, nil
	}

	var w eventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Event{}, &ProtocolMismatchError{
			Reason: "undecodable " + string(typ) + " event payload",
			Cause:  err,
			Raw:    append([]byte(nil), data...),
		}
	}

	return Event{
		Type:            typ,
		SequenceNumber:  w.SequenceNumber,
		Response:        w.Response,
		Item:            w.Item,
		Part:            w.Part,
		Delta:           w.Delta,
		Text:            w.Text,
		Arguments:       w.Arguments,
		Refusal:         w.Refusal,
		Annotation:      w.Annotation,
		AnnotationIndex: w.AnnotationIndex,
		ItemID:          w.ItemID,
		OutputIndex:     w.OutputIndex,
		ContentIndex:    w.ContentIndex,
		CallID:          w.CallID,
		Name:            w.Name,
		Code:            w.Code,
		Message:         w.Message,
		Param:           w.Param,
	}, nil
}

// Err converts an error event into an *APIError, or nil for other events.
func (e Event) Err() *APIError {
	if e.Type != EventError {
		return nil
	}
	return &APIError{Code: e.Code, Message: e.Message, Param: e.Param}
}
