package capability

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// ElevenLabsConfig configures the text-to-speech client.
type ElevenLabsConfig struct {
	APIKey       string
	WSBaseURL    string
	VoiceID      string
	ModelID      string
	OutputFormat string
	Timeout      time.Duration
}

// ElevenLabsClient synthesizes speech over the stream-input websocket and
// accumulates the streamed chunks into a single clip.
type ElevenLabsClient struct {
	cfg ElevenLabsConfig
}

func NewElevenLabsClient(cfg ElevenLabsConfig) *ElevenLabsClient {
	if strings.TrimSpace(cfg.WSBaseURL) == "" {
		cfg.WSBaseURL = "wss://api.elevenlabs.io"
	}
	if strings.TrimSpace(cfg.ModelID) == "" {
		cfg.ModelID = "eleven_multilingual_v2"
	}
	if strings.TrimSpace(cfg.OutputFormat) == "" {
		cfg.OutputFormat = "mp3_44100_64"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	return &ElevenLabsClient{cfg: cfg}
}

func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	if strings.TrimSpace(c.cfg.VoiceID) == "" {
		return nil, "", fmt.Errorf("voice_id is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, "", fmt.Errorf("empty synthesis text")
	}

	u, err := url.Parse(strings.TrimRight(c.cfg.WSBaseURL, "/") + "/v1/text-to-speech/" + url.PathEscape(c.cfg.VoiceID) + "/stream-input")
	if err != nil {
		return nil, "", err
	}
	q := u.Query()
	q.Set("model_id", c.cfg.ModelID)
	q.Set("output_format", c.cfg.OutputFormat)
	q.Set("auto_mode", "true")
	u.RawQuery = q.Encode()

	headers := http.Header{}
	headers.Set("xi-api-key", c.cfg.APIKey)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), headers)
	if err != nil {
		return nil, "", fmt.Errorf("dial tts websocket: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetReadDeadline(deadline)
	_ = conn.SetWriteDeadline(deadline)

	// Prime the stream as documented for TTS websocket flows, then send
	// the full text and close input with an empty frame.
	if err := conn.WriteJSON(map[string]any{"text": " "}); err != nil {
		return nil, "", fmt.Errorf("prime tts stream: %w", err)
	}
	if err := conn.WriteJSON(map[string]any{"text": text + " ", "try_trigger_generation": true}); err != nil {
		return nil, "", fmt.Errorf("send tts text: %w", err)
	}
	if err := conn.WriteJSON(map[string]any{"text": ""}); err != nil {
		return nil, "", fmt.Errorf("close tts input: %w", err)
	}

	var out bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			return nil, "", ctx.Err()
		default:
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if out.Len() > 0 && isNormalClose(err) {
				return out.Bytes(), c.cfg.OutputFormat, nil
			}
			return nil, "", fmt.Errorf("read tts stream: %w", err)
		}

		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			continue
		}
		if errMsg := asString(raw["error"]); errMsg != "" {
			return nil, "", fmt.Errorf("tts error: %s %s", asString(raw["message_type"]), errMsg)
		}
		if audio := asString(raw["audio"]); audio != "" {
			chunk, err := base64.StdEncoding.DecodeString(audio)
			if err != nil {
				return nil, "", fmt.Errorf("decode audio chunk: %w", err)
			}
			_, _ = out.Write(chunk)
		}
		if asBool(raw["isFinal"]) || asBool(raw["is_final"]) {
			if out.Len() == 0 {
				return nil, "", fmt.Errorf("tts stream produced no audio")
			}
			return out.Bytes(), c.cfg.OutputFormat, nil
		}
	}
}

func isNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}
