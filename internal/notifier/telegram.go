package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"BazaarWatch/internal/model"
)

// DefaultTelegramAPI is the Bot API base URL.
const DefaultTelegramAPI = "https://api.telegram.org"

// TelegramNotifier is a Frontend backed by the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	APIBase  string
	Client   *http.Client

	mu           sync.Mutex
	statusMsgID  int
	pollInterval time.Duration
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		APIBase:  DefaultTelegramAPI,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		pollInterval: 5 * time.Second,
	}
}

func (t *TelegramNotifier) Name() string { return "telegram" }

type keyboardButton struct {
	Text string `json:"text"`
}

type replyKeyboard struct {
	Keyboard        [][]keyboardButton `json:"keyboard,omitempty"`
	OneTimeKeyboard bool               `json:"one_time_keyboard,omitempty"`
	ResizeKeyboard  bool               `json:"resize_keyboard,omitempty"`
	RemoveKeyboard  bool               `json:"remove_keyboard,omitempty"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (t *TelegramNotifier) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.APIBase, t.BotToken, method)
}

func (t *TelegramNotifier) call(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint(method), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	var ar apiResponse
	if err := json.Unmarshal(respBody, &ar); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", method, err)
	}
	if !ar.OK {
		return nil, fmt.Errorf("telegram API error: %s", ar.Description)
	}
	return ar.Result, nil
}

// Send sends an HTML message to the configured chat and returns its id.
func (t *TelegramNotifier) Send(ctx context.Context, text string, markup *replyKeyboard) (int, error) {
	payload := map[string]any{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	result, err := t.call(ctx, "sendMessage", payload)
	if err != nil {
		return 0, err
	}
	var msg struct {
		MessageID int `json:"message_id"`
	}
	if err := json.Unmarshal(result, &msg); err != nil {
		return 0, fmt.Errorf("decode sent message: %w", err)
	}
	return msg.MessageID, nil
}

// Delete removes a previously sent message.
func (t *TelegramNotifier) Delete(ctx context.Context, messageID int) error {
	_, err := t.call(ctx, "deleteMessage", map[string]any{
		"chat_id":    t.ChatID,
		"message_id": messageID,
	})
	return err
}

func (t *TelegramNotifier) ShowStatus(ctx context.Context, status model.Status) error {
	if err := t.ClearStatus(ctx); err != nil {
		log.Warn().Err(err).Msg("clear previous status")
	}
	id, err := t.Send(ctx, status.Text, nil)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.statusMsgID = id
	t.mu.Unlock()
	return nil
}

func (t *TelegramNotifier) ClearStatus(ctx context.Context) error {
	t.mu.Lock()
	id := t.statusMsgID
	t.statusMsgID = 0
	t.mu.Unlock()
	if id == 0 {
		return nil
	}
	return t.Delete(ctx, id)
}

// Show sends a view. Suggestions become a reply keyboard; any other view
// removes a keyboard left over from an earlier suggestion list. A view
// without text sends nothing.
func (t *TelegramNotifier) Show(ctx context.Context, view model.View) error {
	if view.Text == "" {
		return nil
	}
	var markup *replyKeyboard
	switch {
	case len(view.Suggestions) > 0:
		markup = &replyKeyboard{OneTimeKeyboard: true, ResizeKeyboard: true}
		for _, s := range view.Suggestions {
			markup.Keyboard = append(markup.Keyboard, []keyboardButton{{Text: s.Label}})
		}
	case view.HideSuggestions:
		markup = &replyKeyboard{RemoveKeyboard: true}
	}
	_, err := t.Send(ctx, view.Text, markup)
	return err
}

func (t *TelegramNotifier) chatAllowed(chatID int64) bool {
	if t.ChatID == "" {
		return true
	}
	return strconv.FormatInt(chatID, 10) == t.ChatID
}
