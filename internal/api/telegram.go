package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/naseer2426/county-bot/internal/logger"
	"github.com/naseer2426/county-bot/internal/telegram"
)

// SecretTokenHeader carries the secret_token given to setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update telegram.Update) error
}

type TelegramWebhook struct {
	Bot    UpdateHandler
	Secret string
	Log    *slog.Logger
}

func (t *TelegramWebhook) TelegramWebhook(c *gin.Context) {
	requestID := requestid.Get(c)
	ctx := logger.ContextWithRequestID(c.Request.Context(), requestID)
	log := t.logger()

	if t.Secret != "" && c.GetHeader(SecretTokenHeader) != t.Secret {
		log.WarnContext(ctx, "webhook call with wrong secret token", "remote", c.ClientIP())
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	update, err := t.parseBody(c)
	if err != nil {
		log.ErrorContext(ctx, "parse telegram update failed", logger.Err(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	// failures are only logged; a non-2xx answer would make Telegram redeliver
	// updates that can never succeed, such as an unchanged message edit
	if err := t.Bot.HandleUpdate(ctx, *update); err != nil {
		log.ErrorContext(ctx, "handle update failed", logger.Err(err), "update_id", update.UpdateID)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (t *TelegramWebhook) parseBody(c *gin.Context) (*telegram.Update, error) {
	var update telegram.Update
	bodyBytes, err := c.GetRawData()
	if err != nil {
		return nil, errors.New("failed to read body")
	}
	if err := json.Unmarshal(bodyBytes, &update); err != nil {
		return nil, fmt.Errorf("invalid payload - %s", string(bodyBytes))
	}

	return &update, nil
}

func (t *TelegramWebhook) logger() *slog.Logger {
	if t.Log == nil {
		return slog.Default()
	}
	return t.Log
}
