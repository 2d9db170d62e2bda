package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/naseer2426/county-bot/internal/logger"
	"github.com/naseer2426/county-bot/internal/telegram"
)

// pollGrace is added to the long poll timeout to bound a whole getUpdates call.
const pollGrace = 10 * time.Second

type API interface {
	Invoke(ctx context.Context, method string, params telegram.Params) (telegram.Value, error)
}

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update telegram.Update) error
}

// LongPoller fetches updates with getUpdates and hands them to Handler one at
// a time, in order.
type LongPoller struct {
	API        API
	Handler    UpdateHandler
	Timeout    time.Duration
	RetryDelay time.Duration
	Log        *slog.Logger

	offset int64
}

func NewLongPoller(api API, handler UpdateHandler, timeout, retryDelay time.Duration, log *slog.Logger) *LongPoller {
	if log == nil {
		log = slog.Default()
	}
	return &LongPoller{
		API:        api,
		Handler:    handler,
		Timeout:    timeout,
		RetryDelay: retryDelay,
		Log:        log.With("component", "longpoll"),
	}
}

func (p *LongPoller) Name() string { return "telegram_longpoll" }

// Run polls until ctx is cancelled. A failed cycle is logged and retried
// after RetryDelay with the same offset.
func (p *LongPoller) Run(ctx context.Context) error {
	p.Log.Info("started long poll loop", "timeout", p.Timeout)
	defer p.Log.Info("long poll loop stopped")

	for ctx.Err() == nil {
		err := p.Poll(ctx)
		if err == nil || ctx.Err() != nil {
			continue
		}
		p.Log.Error("poll cycle failed", logger.Err(err), "offset", p.offset)

		timer := time.NewTimer(p.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}
	return nil
}

// Poll runs a single getUpdates cycle. Handler errors are logged and the
// offset still moves past the update.
func (p *LongPoller) Poll(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, p.Timeout+pollGrace)
	defer cancel()

	resp, err := p.API.Invoke(callCtx, "getUpdates", telegram.Params{
		"offset":          p.offset,
		"timeout":         int(p.Timeout / time.Second),
		"allowed_updates": telegram.AllowedUpdates,
	})
	if err != nil {
		return err
	}

	for raw := range resp.Get("result").Elements() {
		var update telegram.Update
		if err := raw.Decode(&update); err != nil {
			p.Log.Error("skipping undecodable update", logger.Err(err), "update", raw.String())
			if id, ok := raw.Get("update_id").AsInt(); ok {
				p.offset = id + 1
			}
			continue
		}

		updateCtx := logger.ContextWithRequestID(ctx, strconv.FormatInt(update.UpdateID, 10))
		if err := p.Handler.HandleUpdate(updateCtx, update); err != nil {
			p.Log.ErrorContext(updateCtx, "update handling failed", logger.Err(err))
		}
		p.offset = update.UpdateID + 1
	}
	return nil
}

// Offset is the next update id getUpdates will ask for.
func (p *LongPoller) Offset() int64 { return p.offset }
