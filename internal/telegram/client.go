// Package telegram talks to the Telegram Bot API: text sends, media relays,
// file downloads and webhook management.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"linguabot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxDownloadSize caps voice and audio downloads; the Bot API itself refuses files above 20MB.
const maxDownloadSize = 20 << 20

// Client implements domain.Messenger on top of telegram-bot-api.
type Client struct {
	bot          *tgbotapi.BotAPI
	fileEndpoint string
	httpClient   *http.Client
	logger       *slog.Logger
}

type Config struct {
	Token string
	// APIEndpoint and FileEndpoint are fmt patterns taking the token and the
	// method (or file path). Empty means api.telegram.org.
	APIEndpoint  string
	FileEndpoint string
	HTTPClient   *http.Client
	Logger       *slog.Logger
}

// New connects to the Bot API. It performs a getMe call to verify the token.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram: token is required")
	}
	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = tgbotapi.APIEndpoint
	}
	if cfg.FileEndpoint == "" {
		cfg.FileEndpoint = tgbotapi.FileEndpoint
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 120 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, cfg.APIEndpoint, cfg.HTTPClient)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	cfg.Logger.Debug("telegram bot connected", "username", bot.Self.UserName, "id", bot.Self.ID)

	return &Client{
		bot:          bot,
		fileEndpoint: cfg.FileEndpoint,
		httpClient:   cfg.HTTPClient,
		logger:       cfg.Logger,
	}, nil
}

// Self returns the bot account resolved by getMe.
func (c *Client) Self() tgbotapi.User { return c.bot.Self }

// SendText sends one plain-text message. Splitting long bodies is the caller's job.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("sendMessage to %d: %w", chatID, err)
	}
	return nil
}

func (c *Client) SendChatAction(ctx context.Context, chatID int64, action string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// sendChatAction answers with a bare true, so Request rather than Send.
	if _, err := c.bot.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		return fmt.Errorf("sendChatAction to %d: %w", chatID, err)
	}
	return nil
}

// Relay re-sends a media reference to chatID using the send method that
// matches the payload kind. Files are referenced by id, nothing is uploaded.
func (c *Client) Relay(ctx context.Context, chatID int64, p domain.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg tgbotapi.Chattable
	switch v := p.(type) {
	case domain.Photo:
		msg = tgbotapi.NewPhoto(chatID, tgbotapi.FileID(v.File.FileID))
	case domain.Voice:
		msg = tgbotapi.NewVoice(chatID, tgbotapi.FileID(v.File.FileID))
	case domain.Audio:
		msg = tgbotapi.NewAudio(chatID, tgbotapi.FileID(v.File.FileID))
	case domain.Video:
		msg = tgbotapi.NewVideo(chatID, tgbotapi.FileID(v.File.FileID))
	case domain.Document:
		msg = tgbotapi.NewDocument(chatID, tgbotapi.FileID(v.File.FileID))
	case domain.VideoNote:
		msg = tgbotapi.NewVideoNote(chatID, v.Length, tgbotapi.FileID(v.File.FileID))
	case domain.Sticker:
		msg = tgbotapi.NewSticker(chatID, tgbotapi.FileID(v.File.FileID))
	case domain.Location:
		msg = tgbotapi.NewLocation(chatID, v.Latitude, v.Longitude)
	case domain.Contact:
		contact := tgbotapi.NewContact(chatID, v.PhoneNumber, v.FirstName)
		contact.LastName = v.LastName
		contact.VCard = v.VCard
		msg = contact
	default:
		return fmt.Errorf("relay: no send method for %s payload", p.Kind())
	}

	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("relay %s to %d: %w", p.Kind(), chatID, err)
	}
	return nil
}

// DownloadFile resolves fileID with getFile and fetches the file contents.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := c.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("getFile %s: %w", fileID, err)
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("getFile %s: empty file path", fileID)
	}

	url := fmt.Sprintf(c.fileEndpoint, c.bot.Token, file.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", file.FilePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: HTTP %d", file.FilePath, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.FilePath, err)
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("download %s: file exceeds %d bytes", file.FilePath, maxDownloadSize)
	}
	return data, nil
}

// SetWebhook registers url as the update destination. A non-empty secret is
// echoed by Telegram in the X-Telegram-Bot-Api-Secret-Token header.
func (c *Client) SetWebhook(url, secret string, dropPending bool) error {
	if !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("webhook url must use https: %q", url)
	}
	params := tgbotapi.Params{}
	params["url"] = url
	params.AddNonEmpty("secret_token", secret)
	params.AddBool("drop_pending_updates", dropPending)

	resp, err := c.bot.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("setWebhook: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("setWebhook: %s", resp.Description)
	}
	return nil
}

func (c *Client) DeleteWebhook(dropPending bool) error {
	if _, err := c.bot.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: dropPending}); err != nil {
		return fmt.Errorf("deleteWebhook: %w", err)
	}
	return nil
}

func (c *Client) WebhookInfo() (tgbotapi.WebhookInfo, error) {
	info, err := c.bot.GetWebhookInfo()
	if err != nil {
		return tgbotapi.WebhookInfo{}, fmt.Errorf("getWebhookInfo: %w", err)
	}
	return info, nil
}
