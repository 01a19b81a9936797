package capability

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ImageProfile is the model/size pair applied to one generation variant.
type ImageProfile struct {
	Model string
	Size  string
}

// ImagesConfig configures the image-generation client.
type ImagesConfig struct {
	APIKey   string
	BaseURL  string
	Profiles map[Variant]ImageProfile
	Timeout  time.Duration
}

// ImagesClient calls an OpenAI-compatible images endpoint.
type ImagesClient struct {
	cfg    ImagesConfig
	client *http.Client
}

func NewImagesClient(cfg ImagesConfig) *ImagesClient {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[Variant]ImageProfile{}
	}
	if _, ok := cfg.Profiles[VariantImage]; !ok {
		cfg.Profiles[VariantImage] = ImageProfile{Model: "dall-e-3", Size: "1024x1024"}
	}
	if _, ok := cfg.Profiles[VariantAvatar]; !ok {
		cfg.Profiles[VariantAvatar] = ImageProfile{Model: "dall-e-2", Size: "512x512"}
	}
	return &ImagesClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

func (c *ImagesClient) Generate(ctx context.Context, prompt string, variant Variant) (ImageResult, error) {
	profile, ok := c.cfg.Profiles[variant]
	if !ok {
		return ImageResult{}, fmt.Errorf("no image profile for variant %q", variant)
	}

	payload, err := json.Marshal(imageRequest{
		Model:          profile.Model,
		Prompt:         prompt,
		N:              1,
		Size:           profile.Size,
		ResponseFormat: "url",
	})
	if err != nil {
		return ImageResult{}, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/images/generations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return ImageResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	res, err := c.client.Do(req)
	if err != nil {
		return ImageResult{}, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return ImageResult{}, fmt.Errorf("images http status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var out imageResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return ImageResult{}, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Data) == 0 {
		return ImageResult{}, fmt.Errorf("images returned no data")
	}

	first := out.Data[0]
	if first.URL != "" {
		return ImageResult{URL: first.URL}, nil
	}
	if first.B64JSON != "" {
		raw, err := base64.StdEncoding.DecodeString(first.B64JSON)
		if err != nil {
			return ImageResult{}, fmt.Errorf("decode image payload: %w", err)
		}
		return ImageResult{Bytes: raw}, nil
	}
	return ImageResult{}, fmt.Errorf("images returned neither url nor payload")
}
