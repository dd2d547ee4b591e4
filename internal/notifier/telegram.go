package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"poswatch/internal/logger"
)

// maxChunkLen keeps each sendMessage call safely under Telegram's 4096
// cap. Counted in runes; the margin absorbs the occasional rune that
// Telegram counts as two UTF-16 units.
const maxChunkLen = 3900

// Telegram delivers text through the bot sendMessage endpoint. Long
// texts are split into sequential chunks; every chunk must be delivered
// or the send fails as a whole.
type Telegram struct {
	BotToken string
	ChatID   string
	Client   *http.Client
}

func NewTelegram(botToken, chatID string) *Telegram {
	return &Telegram{BotToken: botToken, ChatID: chatID, Client: &http.Client{Timeout: 15 * time.Second}}
}

func (t *Telegram) SendText(text string) error {
	if t.BotToken == "" || t.ChatID == "" {
		return fmt.Errorf("telegram transport is not configured")
	}
	chunks := SplitChunks(text, maxChunkLen)
	for i, chunk := range chunks {
		if err := t.sendChunk(chunk); err != nil {
			return fmt.Errorf("sending chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return nil
}

// sendChunk posts one message with up to 3 attempts.
func (t *Telegram) sendChunk(text string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.BotToken)
	payload := map[string]any{
		"chat_id":                  t.ChatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}
	body, _ := json.Marshal(payload)

	var lastErr error
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("POST", url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := t.Client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		if resp.StatusCode/100 == 2 {
			return nil
		}
		lastErr = fmt.Errorf("telegram status=%d body=%s", resp.StatusCode, bytes.TrimSpace(respBody))
		logger.Warnf("notifier: %v (attempt %d/3)", lastErr, i+1)
		time.Sleep(time.Duration(i+1) * time.Second)
	}
	return lastErr
}

// SplitChunks cuts text into rune-safe pieces of at most max runes,
// preferring to break after the last newline inside the window so report
// lines stay intact. Nothing is ever dropped: the concatenation of the
// chunks is the original text.
func SplitChunks(text string, max int) []string {
	if max <= 0 || len(text) == 0 {
		return []string{text}
	}
	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); {
		end := start + max
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		cut := end
		for i := end - 1; i > start; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		chunks = append(chunks, string(runes[start:cut]))
		start = cut
	}
	return chunks
}
