package telegram

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// BotAPI is a direct Telegram Bot API client for calls made outside a
// telebot update context (reconciler notifications, cron reports).
type BotAPI struct {
	token  string
	client *resty.Client
}

// NewBotAPI creates a new direct Telegram Bot API client.
func NewBotAPI(token string) *BotAPI {
	return &BotAPI{
		token:  token,
		client: resty.New().SetBaseURL("https://api.telegram.org/bot" + token),
	}
}

// Call makes a raw API call to the Telegram Bot API.
func (b *BotAPI) Call(method string, params map[string]interface{}) (string, error) {
	resp, err := b.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(params).
		Post("/" + method)
	if err != nil {
		return "", fmt.Errorf("telegram API call %s failed: %w", method, err)
	}
	return resp.String(), nil
}

// SendMessage sends a text message.
func (b *BotAPI) SendMessage(chatID int64, text string, replyMarkup interface{}) (string, error) {
	params := map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	if replyMarkup != nil {
		params["reply_markup"] = replyMarkup
	}
	return b.Call("sendMessage", params)
}

// AnswerPreCheckoutQuery approves or rejects a Stars pre-checkout.
func (b *BotAPI) AnswerPreCheckoutQuery(queryID string, ok bool, errorMessage string) (string, error) {
	params := map[string]interface{}{
		"pre_checkout_query_id": queryID,
		"ok":                    ok,
	}
	if !ok && errorMessage != "" {
		params["error_message"] = errorMessage
	}
	return b.Call("answerPreCheckoutQuery", params)
}
