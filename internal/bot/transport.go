package bot

import (
	"context"
	"io"

	"github.com/antoniostano/voxbot/internal/capability"
)

// EventKind classifies a normalized inbound update.
type EventKind string

const (
	KindText        EventKind = "text"
	KindVoice       EventKind = "voice"
	KindButton      EventKind = "button"
	KindUnsupported EventKind = "unsupported"
)

// ButtonAction identifies which menu trigger fired, independent of the
// localized label or callback data that carried it.
type ButtonAction string

const (
	ButtonMenu   ButtonAction = "menu"
	ButtonTalk   ButtonAction = "talk"
	ButtonImage  ButtonAction = "image"
	ButtonAvatar ButtonAction = "avatar"
)

// VoiceRef points at a voice payload held by the transport.
type VoiceRef struct {
	FileID   string
	Duration int
}

// Event is the normalized inbound message the orchestrator consumes.
type Event struct {
	UserID int64
	ChatID int64
	Kind   EventKind
	Text   string
	Button ButtonAction
	Voice  VoiceRef
}

// Transport is the outbound side of the chat channel plus voice payload
// retrieval. The Telegram client implements it; tests use a recorder.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendMenu(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, image capability.ImageResult, caption string) error
	SendVoice(ctx context.Context, chatID int64, audio io.Reader, caption string) error
	DownloadVoice(ctx context.Context, fileID string, dst io.Writer) error
}
