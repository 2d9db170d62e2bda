package counter

import (
	"context"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/naseer2426/county-bot/internal/logger"
	"github.com/naseer2426/county-bot/internal/telegram"
)

const (
	answerBasic    = "basic"
	answerPersonal = "personal"
)

// API invokes a Bot API method by name.
type API interface {
	Invoke(ctx context.Context, method string, params telegram.Params) (telegram.Value, error)
}

// Bot turns inline queries and button presses into Bot API calls. It keeps
// no state between updates.
type Bot struct {
	API API
	Log *slog.Logger
}

func NewBot(api API, log *slog.Logger) *Bot {
	if log == nil {
		log = slog.Default()
	}
	return &Bot{
		API: api,
		Log: log.With("component", "counter"),
	}
}

// HandleUpdate processes one update. Updates other than inline and callback
// queries are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, update telegram.Update) error {
	switch {
	case update.InlineQuery != nil:
		return b.HandleInlineQuery(ctx, update.InlineQuery)
	case update.CallbackQuery != nil:
		return b.HandleCallbackQuery(ctx, update.CallbackQuery)
	}
	b.Log.DebugContext(ctx, "ignoring update", "update_id", update.UpdateID)
	return nil
}

// HandleInlineQuery offers a public and a personal counter for the query.
func (b *Bot) HandleInlineQuery(ctx context.Context, query *telegram.InlineQuery) error {
	state := ParseQuery(query.Query)
	personal := OnlyUser(query.SenderID())

	_, err := b.API.Invoke(ctx, "answerInlineQuery", telegram.Params{
		"inline_query_id": query.ID,
		// results embed the sender id, so they must not be cached across users
		"is_personal": true,
		"results": []telegram.InlineQueryResultArticle{
			article(answerBasic, "Add a counter", state, Everyone),
			article(answerPersonal, "Add a personal counter", state, personal),
		},
	})
	return err
}

// HandleCallbackQuery renders the state carried by the pressed button and
// always answers the callback, even when nothing was edited.
func (b *Bot) HandleCallbackQuery(ctx context.Context, cb *telegram.CallbackQuery) error {
	var result *multierror.Error
	if err := b.press(ctx, cb); err != nil {
		result = multierror.Append(result, err)
	}

	_, err := b.API.Invoke(ctx, "answerCallbackQuery", telegram.Params{
		"callback_query_id": cb.ID,
	})
	if err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func (b *Bot) press(ctx context.Context, cb *telegram.CallbackQuery) error {
	log := b.Log.With("callback_id", cb.ID, "user_id", cb.SenderID())

	payload, err := ParsePayload(cb.Data)
	if err != nil {
		log.ErrorContext(ctx, "rejecting callback payload", logger.Err(err))
		return nil
	}

	if !payload.Restrict.Allows(cb.SenderID()) {
		log.DebugContext(ctx, "press by another user ignored", "restrict", payload.Restrict.String())
		return nil
	}

	state, ok := ParseRendered(payload.State)
	if !ok {
		log.WarnContext(ctx, "callback state not recognized", "state", payload.State)
		return nil
	}

	_, err = b.API.Invoke(ctx, "editMessageText", telegram.Params{
		"inline_message_id": cb.InlineMessageID,
		"text":              state.Render(),
		"parse_mode":        telegram.ParseModeMarkdown,
		"reply_markup":      Keyboard(state, payload.Restrict),
	})
	return err
}

// Keyboard is the "+" and "-" row for state. Each button carries the state it
// leads to.
func Keyboard(state State, restrict Restrict) telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{
			{Text: "+", CallbackData: NewPayload(state.Inc(), restrict).String()},
			{Text: "-", CallbackData: NewPayload(state.Dec(), restrict).String()},
		}},
	}
}

func article(id, title string, state State, restrict Restrict) telegram.InlineQueryResultArticle {
	keyboard := Keyboard(state, restrict)
	return telegram.InlineQueryResultArticle{
		Type:        "article",
		ID:          id,
		Title:       title,
		Description: state.Describe(),
		InputMessageContent: telegram.InputTextMessageContent{
			MessageText: state.Render(),
			ParseMode:   telegram.ParseModeMarkdown,
		},
		ReplyMarkup: &keyboard,
	}
}
