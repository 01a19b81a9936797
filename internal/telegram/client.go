package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/antoniostano/voxbot/internal/capability"
)

// MenuLabels holds the localized reply-keyboard button texts.
type MenuLabels struct {
	Talk   string
	Image  string
	Avatar string
}

// ClientConfig configures the Bot API client.
type ClientConfig struct {
	Token   string
	APIURL  string
	Labels  MenuLabels
	Timeout time.Duration
}

// Client is a Telegram Bot API facade implementing the bot transport.
type Client struct {
	cfg    ClientConfig
	client *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	if strings.TrimSpace(cfg.APIURL) == "" {
		cfg.APIURL = "https://api.telegram.org"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (c *Client) methodURL(method string) string {
	return strings.TrimRight(c.cfg.APIURL, "/") + "/bot" + c.cfg.Token + "/" + method
}

func (c *Client) call(ctx context.Context, method string, payload any, result any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, method, result)
}

func (c *Client) do(req *http.Request, method string, result any) error {
	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send %s: %w", method, err)
	}
	defer res.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("%s: telegram error: %s", method, envelope.Description)
	}
	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	return c.call(ctx, "sendMessage", map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}, nil)
}

// SendMenu sends text with the persistent reply keyboard attached.
func (c *Client) SendMenu(ctx context.Context, chatID int64, text string) error {
	return c.call(ctx, "sendMessage", map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
		"reply_markup": map[string]any{
			"keyboard": [][]map[string]string{
				{{"text": c.cfg.Labels.Talk}},
				{{"text": c.cfg.Labels.Image}},
				{{"text": c.cfg.Labels.Avatar}},
			},
			"resize_keyboard": true,
		},
	}, nil)
}

func (c *Client) SendPhoto(ctx context.Context, chatID int64, image capability.ImageResult, caption string) error {
	if image.URL != "" {
		payload := map[string]any{
			"chat_id": chatID,
			"photo":   image.URL,
		}
		if caption != "" {
			payload["caption"] = caption
		}
		return c.call(ctx, "sendPhoto", payload, nil)
	}
	return c.upload(ctx, "sendPhoto", chatID, "photo", "image.png", bytes.NewReader(image.Bytes), caption)
}

func (c *Client) SendVoice(ctx context.Context, chatID int64, audio io.Reader, caption string) error {
	return c.upload(ctx, "sendVoice", chatID, "voice", "reply.mp3", audio, caption)
}

func (c *Client) upload(ctx context.Context, method string, chatID int64, field, filename string, content io.Reader, caption string) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("write chat_id: %w", err)
	}
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			return fmt.Errorf("write caption: %w", err)
		}
	}
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), &body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, method, nil)
}

// DownloadVoice resolves the file path via getFile and streams the payload
// into dst.
func (c *Client) DownloadVoice(ctx context.Context, fileID string, dst io.Writer) error {
	var file struct {
		FilePath string `json:"file_path"`
	}
	if err := c.call(ctx, "getFile", map[string]any{"file_id": fileID}, &file); err != nil {
		return err
	}
	if file.FilePath == "" {
		return fmt.Errorf("getFile returned empty file_path")
	}

	url := strings.TrimRight(c.cfg.APIURL, "/") + "/file/bot" + c.cfg.Token + "/" + file.FilePath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create download request: %w", err)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("download voice: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("download voice: http status %d", res.StatusCode)
	}
	if _, err := io.Copy(dst, res.Body); err != nil {
		return fmt.Errorf("copy voice payload: %w", err)
	}
	return nil
}

// SetWebhook registers the public webhook URL, dropping stale updates the
// way the original deployment did on startup.
func (c *Client) SetWebhook(ctx context.Context, url string) error {
	return c.call(ctx, "setWebhook", map[string]any{
		"url":                  url,
		"drop_pending_updates": true,
	}, nil)
}

func (c *Client) DeleteWebhook(ctx context.Context) error {
	return c.call(ctx, "deleteWebhook", map[string]any{}, nil)
}
