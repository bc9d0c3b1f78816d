package responses

import (
	"errors"
	"io"
)

// Accumulator folds stream events into a response snapshot.
//
// Most events carry enough structure to rebuild the final Response without
// waiting for the terminal lifecycle event, but when a terminal event does
// arrive its embedded snapshot wins: the server's view of the finished
// response is authoritative.
type Accumulator struct {
	resp     Response
	haveResp bool
	err      *APIError
}

// Apply folds one event into the accumulated state. Events must be applied
// in the order the stream yielded them.
func (a *Accumulator) Apply(ev Event) {
	switch ev.Type {
	case EventResponseCreated, EventResponseQueued, EventResponseInProgress,
		EventResponseCompleted, EventResponseFailed, EventResponseIncomplete,
		EventResponseCancelled:
		if ev.Response != nil {
			a.resp = *ev.Response
			a.haveResp = true
		}

	case EventOutputItemAdded:
		if ev.Item != nil {
			a.growOutput(ev.OutputIndex)
			a.resp.Output[ev.OutputIndex] = *ev.Item
		}

	case EventOutputItemDone:
		if ev.Item != nil {
			a.growOutput(ev.OutputIndex)
			a.resp.Output[ev.OutputIndex] = *ev.Item
		}

	case EventContentPartAdded, EventContentPartDone:
		if ev.Part == nil {
			return
		}
		a.growOutput(ev.OutputIndex)
		item := &a.resp.Output[ev.OutputIndex]
		if item.Message == nil {
			item.Type = ItemTypeMessage
			item.Message = &MessageData{Role: RoleAssistant}
		}
		for len(item.Message.Content) <= ev.ContentIndex {
			item.Message.Content = append(item.Message.Content, ContentPart{})
		}
		item.Message.Content[ev.ContentIndex] = *ev.Part

	case EventOutputTextDelta:
		part := a.part(ev.OutputIndex, ev.ContentIndex)
		if part.Type == "" {
			part.Type = ContentPartOutputText
		}
		part.Text += ev.Delta

	case EventOutputTextDone:
		part := a.part(ev.OutputIndex, ev.ContentIndex)
		part.Type = ContentPartOutputText
		part.Text = ev.Text

	case EventOutputTextAnnotation:
		if ev.Annotation == nil {
			return
		}
		part := a.part(ev.OutputIndex, ev.ContentIndex)
		part.Annotations = append(part.Annotations, *ev.Annotation)

	case EventRefusalDelta:
		part := a.part(ev.OutputIndex, ev.ContentIndex)
		if part.Type == "" {
			part.Type = ContentPartRefusal
		}
		part.Refusal += ev.Delta

	case EventRefusalDone:
		part := a.part(ev.OutputIndex, ev.ContentIndex)
		part.Type = ContentPartRefusal
		part.Refusal = ev.Refusal

	case EventFunctionCallArgsDelta:
		item := a.item(ev.OutputIndex)
		if item.FunctionCall == nil {
			item.Type = ItemTypeFunctionCall
			item.FunctionCall = &FunctionCallData{}
		}
		item.FunctionCall.Arguments += ev.Delta

	case EventFunctionCallArgsDone:
		item := a.item(ev.OutputIndex)
		if item.FunctionCall == nil {
			item.Type = ItemTypeFunctionCall
			item.FunctionCall = &FunctionCallData{}
		}
		item.FunctionCall.Arguments = ev.Arguments
		if item.ID == "" {
			item.ID = ev.ItemID
		}

	case EventError:
		a.err = ev.Err()
	}
}

func (a *Accumulator) growOutput(index int) {
	for len(a.resp.Output) <= index {
		a.resp.Output = append(a.resp.Output, Item{})
	}
}

func (a *Accumulator) item(index int) *Item {
	a.growOutput(index)
	return &a.resp.Output[index]
}

func (a *Accumulator) part(outputIndex, contentIndex int) *ContentPart {
	item := a.item(outputIndex)
	if item.Message == nil {
		item.Type = ItemTypeMessage
		item.Message = &MessageData{Role: RoleAssistant}
	}
	for len(item.Message.Content) <= contentIndex {
		item.Message.Content = append(item.Message.Content, ContentPart{})
	}
	return &item.Message.Content[contentIndex]
}

// Response returns the accumulated response snapshot.
func (a *Accumulator) Response() Response {
	return a.resp
}

// Err returns the server-reported error event, if an error event was applied.
func (a *Accumulator) Err() *APIError {
	return a.err
}

// Collect drains a stream to completion and returns the final response.
// The stream is closed before Collect returns. A server-reported error
// event becomes the returned error.
func Collect(stream *Stream) (Response, error) {
	defer stream.Close()

	var acc Accumulator
	for {
		ev, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return acc.Response(), err
		}
		acc.Apply(ev)
		if ev.Type.Terminal() {
			break
		}
	}
	if acc.Err() != nil {
		return acc.Response(), acc.Err()
	}
	return acc.Response(), nil
}
