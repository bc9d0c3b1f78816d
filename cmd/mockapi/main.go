// Command mockapi runs a deterministic Responses API server for local
// development and conformance testing. It returns predictable responses
// based on request content, supports SSE streaming, and keeps stored
// responses in memory so retrieval and deletion can be exercised.
//
// Configuration:
//
//	MOCKAPI_PORT - Listen port (default: 8090)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/rhuss/responses-go/pkg/responses"
)

func main() {
	port := os.Getenv("MOCKAPI_PORT")
	if port == "" {
		port = "8090"
	}

	store := newResponseStore()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/responses", store.handleCreate)
	mux.HandleFunc("GET /v1/responses/{id}", store.handleGet)
	mux.HandleFunc("DELETE /v1/responses/{id}", store.handleDelete)
	mux.HandleFunc("GET /v1/responses/{id}/inputs", store.handleListInputs)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock responses server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock responses server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock responses server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// responseStore holds generated responses so GET, DELETE, and the input
// item listing work against earlier POSTs.
type responseStore struct {
	mu     sync.Mutex
	stored map[string]storedResponse
}

type storedResponse struct {
	resp   responses.Response
	inputs []responses.Item
}

func newResponseStore() *responseStore {
	return &responseStore{stored: make(map[string]storedResponse)}
}

func newResponseID() string {
	return "resp_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *responseStore) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req responses.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "could not decode request: "+err.Error())
		return
	}
	if req.Model == "" {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "model is required")
		return
	}

	if req.Stream != nil && *req.Stream {
		s.streamResponse(w, &req)
		return
	}

	resp := s.buildResponse(&req)
	if req.Store == nil || *req.Store {
		s.save(resp, inputItems(&req))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *responseStore) handleGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	entry, ok := s.stored[r.PathValue("id")]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "response not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry.resp)
}

func (s *responseStore) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	_, ok := s.stored[id]
	delete(s.stored, id)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "response not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"id":%q,"object":"response","deleted":true}`+"\n", id)
}

func (s *responseStore) handleListInputs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	entry, ok := s.stored[r.PathValue("id")]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "response not found")
		return
	}

	list := responses.InputItemList{Object: "list", Data: entry.inputs}
	if len(entry.inputs) > 0 {
		list.FirstID = entry.inputs[0].ID
		list.LastID = entry.inputs[len(entry.inputs)-1].ID
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (s *responseStore) save(resp responses.Response, inputs []responses.Item) {
	for i := range inputs {
		if inputs[i].ID == "" {
			inputs[i].ID = "msg_" + strings.ReplaceAll(uuid.NewString(), "-", "")
		}
	}
	s.mu.Lock()
	s.stored[resp.ID] = storedResponse{resp: resp, inputs: inputs}
	s.mu.Unlock()
}

func inputItems(req *responses.Request) []responses.Item {
	if req.Input.Text != "" {
		return []responses.Item{responses.UserMessage(req.Input.Text)}
	}
	return req.Input.Items
}

// buildResponse classifies the request and produces a deterministic
// completed response for it.
func (s *responseStore) buildResponse(req *responses.Request) responses.Response {
	resp := responses.Response{
		ID:        newResponseID(),
		Object:    "response",
		CreatedAt: time.Now().Unix(),
		Status:    responses.ResponseStatusCompleted,
		Model:     req.Model,
		Usage: &responses.Usage{
			InputTokens:  10,
			OutputTokens: 5,
			TotalTokens:  15,
		},
	}

	if len(req.Tools) > 0 {
		resp.Output = []responses.Item{{
			Type:   responses.ItemTypeFunctionCall,
			ID:     "item_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
			Status: responses.ItemStatusCompleted,
			FunctionCall: &responses.FunctionCallData{
				CallID:    "call_mock_1",
				Name:      toolName(req),
				Arguments: `{"location":"San Francisco","unit":"celsius"}`,
			},
		}}
		return resp
	}

	item := responses.AssistantMessage(scriptedText(req))
	item.ID = "item_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	item.Status = responses.ItemStatusCompleted
	resp.Output = []responses.Item{item}
	return resp
}

func toolName(req *responses.Request) string {
	if name := req.Tools[0].Name(); name != "" {
		return name
	}
	return "get_weather"
}

// scriptedText picks the reply for a request. A couple of prompts map to
// fixed outputs so client tests can assert exact content.
func scriptedText(req *responses.Request) string {
	prompt := strings.ToLower(lastUserText(req))
	switch {
	case strings.Contains(prompt, "count from 1 to 5"):
		return "1, 2, 3, 4, 5"
	case req.Instructions != "":
		return "Ahoy there, matey! Welcome aboard!"
	default:
		return "Hello, nice day!"
	}
}

func lastUserText(req *responses.Request) string {
	if req.Input.Text != "" {
		return req.Input.Text
	}
	for i := len(req.Input.Items) - 1; i >= 0; i-- {
		item := req.Input.Items[i]
		if item.Message == nil || item.Message.Role != responses.RoleUser {
			continue
		}
		for _, part := range item.Message.Content {
			if part.Type == responses.ContentPartInputText {
				return part.Text
			}
		}
	}
	return ""
}

// streamResponse replays the canonical event sequence for a generated
// response: lifecycle, item, part, one delta per token, then the done and
// terminal events, then the [DONE] sentinel.
func (s *responseStore) streamResponse(w http.ResponseWriter, req *responses.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "server_error", "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	final := s.buildResponse(req)
	if req.Store == nil || *req.Store {
		s.save(final, inputItems(req))
	}

	created := final
	created.Status = responses.ResponseStatusInProgress
	created.Output = []responses.Item{}
	created.Usage = nil

	seq := 0
	emit := func(ev responses.Event) {
		seq++
		ev.SequenceNumber = seq
		data, err := json.Marshal(&ev)
		if err != nil {
			slog.Error("encoding event", "type", ev.Type, "error", err)
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
		flusher.Flush()
	}

	emit(responses.Event{Type: responses.EventResponseCreated, Response: &created})

	item := final.Output[0]
	emit(responses.Event{Type: responses.EventOutputItemAdded, OutputIndex: 0, Item: &item})

	if item.Message != nil {
		text := item.Message.Content[0].Text
		part := responses.ContentPart{Type: responses.ContentPartOutputText, Annotations: []responses.Annotation{}}
		emit(responses.Event{Type: responses.EventContentPartAdded, ItemID: item.ID, ContentIndex: 0, Part: &part})

		for _, token := range tokenize(text) {
			emit(responses.Event{Type: responses.EventOutputTextDelta, ItemID: item.ID, ContentIndex: 0, Delta: token})
		}

		emit(responses.Event{Type: responses.EventOutputTextDone, ItemID: item.ID, ContentIndex: 0, Text: text})
		done := part
		done.Text = text
		emit(responses.Event{Type: responses.EventContentPartDone, ItemID: item.ID, ContentIndex: 0, Part: &done})
	} else if item.FunctionCall != nil {
		emit(responses.Event{Type: responses.EventFunctionCallArgsDelta, ItemID: item.ID, Delta: item.FunctionCall.Arguments})
		emit(responses.Event{Type: responses.EventFunctionCallArgsDone, ItemID: item.ID, Arguments: item.FunctionCall.Arguments})
	}

	emit(responses.Event{Type: responses.EventOutputItemDone, OutputIndex: 0, Item: &item})
	emit(responses.Event{Type: responses.EventResponseCompleted, Response: &final})

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// tokenize splits text into word-ish chunks so streamed deltas look like
// model output rather than one blob.
func tokenize(text string) []string {
	words := strings.SplitAfter(text, " ")
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":{"type":%q,"message":%q}}`+"\n", errType, message)
}
