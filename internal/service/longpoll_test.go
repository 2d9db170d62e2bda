package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/naseer2426/county-bot/internal/logger"
	"github.com/naseer2426/county-bot/internal/telegram"
)

type scriptedAPI struct {
	replies []string
	errs    []error
	params  []telegram.Params
}

func (s *scriptedAPI) Invoke(_ context.Context, method string, params telegram.Params) (telegram.Value, error) {
	i := len(s.params)
	s.params = append(s.params, params)
	if method != "getUpdates" {
		return telegram.Value{}, errors.New("unexpected method " + method)
	}
	if i < len(s.errs) && s.errs[i] != nil {
		return telegram.Value{}, s.errs[i]
	}
	if i >= len(s.replies) {
		return telegram.ParseValue([]byte(`{"ok":true,"result":[]}`))
	}
	return telegram.ParseValue([]byte(s.replies[i]))
}

type recordingHandler struct {
	updates    []telegram.Update
	requestIDs []string
	fail       map[int64]error
}

func (h *recordingHandler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	h.updates = append(h.updates, update)
	id, _ := logger.RequestIDFromContext(ctx)
	h.requestIDs = append(h.requestIDs, id)
	return h.fail[update.UpdateID]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPollDeliversUpdatesInOrder(t *testing.T) {
	api := &scriptedAPI{replies: []string{
		`{"ok":true,"result":[
			{"update_id":10,"inline_query":{"id":"q","from":{"id":7},"query":"Score: 5"}},
			{"update_id":11,"callback_query":{"id":"c","from":{"id":7},"data":"Score: *6*|@all"}}
		]}`,
	}}
	handler := &recordingHandler{}
	poller := NewLongPoller(api, handler, 30*time.Second, time.Millisecond, quietLogger())

	if err := poller.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(handler.updates) != 2 || handler.updates[0].InlineQuery == nil || handler.updates[1].CallbackQuery == nil {
		t.Fatalf("unexpected updates %+v", handler.updates)
	}
	if handler.requestIDs[0] != "10" || handler.requestIDs[1] != "11" {
		t.Fatalf("request ids = %v", handler.requestIDs)
	}
	if poller.Offset() != 12 {
		t.Fatalf("offset = %d", poller.Offset())
	}

	if err := poller.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	second := api.params[1]
	if second["offset"] != int64(12) || second["timeout"] != 30 {
		t.Fatalf("unexpected params %v", second)
	}
	allowed, _ := second["allowed_updates"].([]string)
	if len(allowed) != 2 || allowed[0] != "inline_query" || allowed[1] != "callback_query" {
		t.Fatalf("allowed_updates = %v", second["allowed_updates"])
	}
}

func TestPollSkipsPastFailedUpdates(t *testing.T) {
	api := &scriptedAPI{replies: []string{
		`{"ok":true,"result":[
			{"update_id":3,"callback_query":{"id":"c","from":{"id":1},"data":"x: *1*|@all"}},
			{"update_id":4,"inline_query":"not an object"},
			{"update_id":5,"inline_query":{"id":"q","from":{"id":1},"query":"x"}}
		]}`,
	}}
	handler := &recordingHandler{fail: map[int64]error{3: errors.New("edit failed")}}
	poller := NewLongPoller(api, handler, time.Second, time.Millisecond, quietLogger())

	if err := poller.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(handler.updates) != 2 {
		t.Fatalf("expected updates 3 and 5, got %+v", handler.updates)
	}
	if poller.Offset() != 6 {
		t.Fatalf("offset = %d", poller.Offset())
	}
}

func TestPollReturnsTransportError(t *testing.T) {
	boom := errors.New("network down")
	api := &scriptedAPI{errs: []error{boom}}
	poller := NewLongPoller(api, &recordingHandler{}, time.Second, time.Millisecond, quietLogger())

	if err := poller.Poll(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if poller.Offset() != 0 {
		t.Fatalf("offset moved on failure: %d", poller.Offset())
	}
}

func TestRunRetriesAndStops(t *testing.T) {
	api := &scriptedAPI{
		errs:    []error{errors.New("flaky")},
		replies: []string{"", `{"ok":true,"result":[{"update_id":1,"inline_query":{"id":"q","query":"a"}}]}`},
	}
	ctx, cancel := context.WithCancel(context.Background())
	handler := &stopAfterHandler{cancel: cancel}
	poller := NewLongPoller(api, handler, time.Second, time.Millisecond, quietLogger())

	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
	if handler.seen != 1 {
		t.Fatalf("handled %d updates", handler.seen)
	}
}

type stopAfterHandler struct {
	cancel context.CancelFunc
	seen   int
}

func (h *stopAfterHandler) HandleUpdate(context.Context, telegram.Update) error {
	h.seen++
	h.cancel()
	return nil
}
