package telegram

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Bot struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewBot(token string) *Bot {
	return &Bot{
		token:   token,
		baseURL: "https://api.telegram.org/bot" + token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether the bot is configured with a token
func (b *Bot) Enabled() bool {
	return b.token != ""
}

func (b *Bot) SendMessage(chatID, text string) error {
	if !b.Enabled() {
		return fmt.Errorf("telegram bot is not configured")
	}

	params := url.Values{}
	params.Add("chat_id", chatID)
	params.Add("text", text)

	resp, err := b.client.PostForm(b.baseURL+"/sendMessage", params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: %s", resp.Status)
	}

	return nil
}
