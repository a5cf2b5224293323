// Package messaging delivers digests through a messaging bot.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/ports/gateways"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLength is the Bot API limit for a single text message, in characters.
const maxMessageLength = 4096

// TelegramConfig configures a TelegramTransport.
type TelegramConfig struct {
	Token string
	// APIEndpoint is a format string taking the token and the method name.
	// Defaults to tgbotapi.APIEndpoint.
	APIEndpoint string
	HTTPClient  *http.Client
}

// TelegramTransport opens Bot API sessions.
type TelegramTransport struct {
	cfg TelegramConfig
}

var _ gateways.MessageTransport = (*TelegramTransport)(nil)

// NewTelegramTransport creates a transport. The token is verified when a session is opened.
func NewTelegramTransport(cfg TelegramConfig) *TelegramTransport {
	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = tgbotapi.APIEndpoint
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TelegramTransport{cfg: cfg}
}

// Open authenticates the bot with getMe and returns a session bound to it.
func (t *TelegramTransport) Open(ctx context.Context) (gateways.MessageSession, error) {
	if t.cfg.Token == "" {
		return nil, fmt.Errorf("%w: telegram token is empty", apperrors.ErrConfiguration)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bot, err := tgbotapi.NewBotAPIWithClient(t.cfg.Token, t.cfg.APIEndpoint, t.cfg.HTTPClient)
	if err != nil {
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: telegram rejected the bot token", apperrors.ErrConfiguration)
		}
		return nil, fmt.Errorf("%w: telegram getMe: %v", apperrors.ErrProviderUnavailable, err)
	}
	return &telegramSession{bot: bot}, nil
}

type telegramSession struct {
	bot *tgbotapi.BotAPI
}

// Send delivers text to a chat id, splitting it into several messages when it exceeds the length limit.
func (s *telegramSession) Send(ctx context.Context, externalID string, text string) error {
	if s.bot == nil {
		return errors.New("telegram session is closed")
	}
	chatID, err := strconv.ParseInt(strings.TrimSpace(externalID), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: chat id %q is not numeric", apperrors.ErrRecipientUnreachable, externalID)
	}

	for _, part := range splitMessage(text, maxMessageLength) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			return classifySendError(chatID, err)
		}
	}
	return nil
}

func (s *telegramSession) Close() error {
	s.bot = nil
	return nil
}

func classifySendError(chatID int64, err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusForbidden:
			return fmt.Errorf("%w: chat %d: %s", apperrors.ErrRecipientUnreachable, chatID, apiErr.Message)
		case apiErr.Code == http.StatusBadRequest && strings.Contains(strings.ToLower(apiErr.Message), "chat not found"):
			return fmt.Errorf("%w: chat %d: %s", apperrors.ErrRecipientUnreachable, chatID, apiErr.Message)
		}
	}
	return fmt.Errorf("%w: telegram sendMessage to %d: %v", apperrors.ErrProviderUnavailable, chatID, err)
}

// splitMessage cuts text on line boundaries into parts of at most limit characters.
// A single line longer than limit is cut mid-line.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	currentLen := 0
	flush := func() {
		if currentLen > 0 {
			parts = append(parts, strings.TrimRight(current.String(), "\n"))
			current.Reset()
			currentLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		lineLen := utf8.RuneCountInString(line)
		if currentLen+lineLen > limit {
			flush()
		}
		for lineLen > limit {
			runes := []rune(line)
			parts = append(parts, string(runes[:limit]))
			line = string(runes[limit:])
			lineLen -= limit
		}
		current.WriteString(line)
		currentLen += lineLen
	}
	flush()
	return parts
}
