package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/naseer2426/county-bot/internal/logger"
	"github.com/samber/lo"
)

const (
	DefaultEndpoint  = "https://api.telegram.org/bot{token}/{method}"
	DefaultUserAgent = "CountyBot/1.0.0"
)

var ErrNoToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

// Params are the named parameters of a Bot API method, sent as a JSON object.
type Params map[string]any

// APIError is a response the Bot API did not mark as ok.
type APIError struct {
	Method      string
	StatusCode  int
	ErrorCode   int64
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("telegram %s returned status %d", e.Method, e.StatusCode)
	}
	return fmt.Sprintf("telegram %s failed (%d): %s", e.Method, e.ErrorCode, e.Description)
}

// TelegramAPI calls Bot API methods by name. It has no per-method code: the
// method name and the token are substituted into the endpoint pattern and the
// parameters become the JSON body. It is safe for concurrent use.
type TelegramAPI struct {
	token     string
	endpoint  string
	userAgent string
	defaults  Params
	client    *resty.Client
}

type Option func(*TelegramAPI)

// WithEndpoint sets the endpoint pattern; it must contain {token} and {method}.
func WithEndpoint(pattern string) Option {
	return func(t *TelegramAPI) { t.endpoint = pattern }
}

// WithDefaults sets parameters merged into every call. Call-site parameters
// win on conflicts.
func WithDefaults(defaults Params) Option {
	return func(t *TelegramAPI) { t.defaults = lo.Assign(defaults) }
}

func WithUserAgent(ua string) Option {
	return func(t *TelegramAPI) { t.userAgent = ua }
}

func WithRestyClient(client *resty.Client) Option {
	return func(t *TelegramAPI) { t.client = client }
}

func NewTelegramAPI(token string, opts ...Option) *TelegramAPI {
	t := &TelegramAPI{
		token:     token,
		endpoint:  DefaultEndpoint,
		userAgent: DefaultUserAgent,
		defaults:  Params{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.client == nil {
		t.client = resty.New()
	}
	return t
}

// Method starts a method path. Further segments are added with Method.Method.
func (t *TelegramAPI) Method(name string) Method {
	return Method{api: t, segments: []string{name}}
}

// Invoke calls method with params merged over the default parameters and
// returns the whole decoded response body.
func (t *TelegramAPI) Invoke(ctx context.Context, method string, params Params) (Value, error) {
	if t.token == "" {
		return Value{}, ErrNoToken
	}

	body := lo.Assign(Params{}, t.defaults, params)

	req := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", t.userAgent).
		SetPathParams(map[string]string{
			"token":  t.token,
			"method": method,
		}).
		SetBody(body)
	if requestID, ok := logger.RequestIDFromContext(ctx); ok {
		req.SetHeader("X-Request-ID", requestID)
	}

	resp, err := req.Post(t.endpoint)
	if err != nil {
		return Value{}, fmt.Errorf("http call to telegram %s failed: %w", method, err)
	}

	result, err := ParseValue(resp.Body())
	if err != nil {
		if resp.IsError() {
			return Value{}, &APIError{Method: method, StatusCode: resp.StatusCode()}
		}
		return Value{}, fmt.Errorf("telegram %s returned invalid JSON: %w", method, err)
	}

	if ok, _ := result.Get("ok").AsBool(); !ok || resp.IsError() {
		apiErr := &APIError{Method: method, StatusCode: resp.StatusCode()}
		apiErr.ErrorCode, _ = result.Get("error_code").AsInt()
		apiErr.Description, _ = result.Get("description").AsString()
		return result, apiErr
	}

	return result, nil
}

// Method is a dotted method path under construction. Values are immutable;
// extending one path never changes another.
type Method struct {
	api      *TelegramAPI
	segments []string
}

// Method returns the path extended by name.
func (m Method) Method(name string) Method {
	segments := make([]string, len(m.segments), len(m.segments)+1)
	copy(segments, m.segments)
	return Method{api: m.api, segments: append(segments, name)}
}

// Path joins the segments with dots.
func (m Method) Path() string {
	return strings.Join(m.segments, ".")
}

func (m Method) Invoke(ctx context.Context, params Params) (Value, error) {
	return m.api.Invoke(ctx, m.Path(), params)
}
