package bot

import (
	"context"
	"io"

	"github.com/antoniostano/voxbot/internal/capability"
)

// Channel-imposed size limits, in runes.
const (
	TextLimit    = 4000
	CaptionLimit = 1000

	ellipsis = "…"
)

// Truncate cuts s to at most limit runes, marking the cut with an
// ellipsis instead of rejecting the reply.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}

// Composer shapes capability results into channel-ready replies.
type Composer struct {
	transport Transport
}

func NewComposer(transport Transport) *Composer {
	return &Composer{transport: transport}
}

func (c *Composer) Text(ctx context.Context, chatID int64, text string) error {
	return c.transport.SendText(ctx, chatID, Truncate(text, TextLimit))
}

func (c *Composer) Menu(ctx context.Context, chatID int64, text string) error {
	return c.transport.SendMenu(ctx, chatID, Truncate(text, TextLimit))
}

func (c *Composer) Photo(ctx context.Context, chatID int64, image capability.ImageResult, caption string) error {
	return c.transport.SendPhoto(ctx, chatID, image, Truncate(caption, CaptionLimit))
}

func (c *Composer) Voice(ctx context.Context, chatID int64, audio io.Reader, caption string) error {
	return c.transport.SendVoice(ctx, chatID, audio, Truncate(caption, CaptionLimit))
}
