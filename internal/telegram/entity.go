package telegram

// Telegram API entity structs

// Update kinds the bot subscribes to.
const (
	UpdateInlineQuery   = "inline_query"
	UpdateCallbackQuery = "callback_query"
)

// AllowedUpdates is sent with getUpdates and setWebhook.
var AllowedUpdates = []string{UpdateInlineQuery, UpdateCallbackQuery}

const ParseModeMarkdown = "markdown"

type Update struct {
	UpdateID      int64          `json:"update_id"`
	InlineQuery   *InlineQuery   `json:"inline_query,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

type User struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

type InlineQuery struct {
	ID     string `json:"id"`
	From   *User  `json:"from"`
	Query  string `json:"query"`
	Offset string `json:"offset"`
}

type CallbackQuery struct {
	ID              string `json:"id"`
	From            *User  `json:"from"`
	InlineMessageID string `json:"inline_message_id,omitempty"`
	ChatInstance    string `json:"chat_instance,omitempty"`
	Data            string `json:"data,omitempty"`
}

type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
}

type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

type InputTextMessageContent struct {
	MessageText string `json:"message_text"`
	ParseMode   string `json:"parse_mode,omitempty"`
}

type InlineQueryResultArticle struct {
	Type                string                  `json:"type"`
	ID                  string                  `json:"id"`
	Title               string                  `json:"title"`
	Description         string                  `json:"description,omitempty"`
	InputMessageContent InputTextMessageContent `json:"input_message_content"`
	ReplyMarkup         *InlineKeyboardMarkup   `json:"reply_markup,omitempty"`
}

// userID returns the sender id, or 0 when the sender is unknown.
func (u *User) userID() int64 {
	if u == nil {
		return 0
	}
	return u.ID
}

func (q *InlineQuery) SenderID() int64 { return q.From.userID() }

func (q *CallbackQuery) SenderID() int64 { return q.From.userID() }
