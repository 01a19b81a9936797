package telegram

import (
	"strings"

	"github.com/antoniostano/voxbot/internal/bot"
)

// Update mirrors the subset of the Bot API update payload the bot reads.
type Update struct {
	UpdateID int64          `json:"update_id"`
	Message  *Message       `json:"message"`
	Callback *CallbackQuery `json:"callback_query"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
	Voice     *Voice `json:"voice"`
}

type User struct {
	ID int64 `json:"id"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type Voice struct {
	FileID   string `json:"file_id"`
	Duration int    `json:"duration"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	From    *User    `json:"from"`
	Message *Message `json:"message"`
	Data    string   `json:"data"`
}

// Callback data identifiers kept stable and ASCII regardless of the
// localized button labels.
const (
	CallbackTalk   = "talk"
	CallbackImage  = "gen_image"
	CallbackAvatar = "gen_avatar"
)

// Normalizer classifies raw updates into orchestrator events by matching
// message text against the configured menu labels and callback data.
type Normalizer struct {
	labels MenuLabels
}

func NewNormalizer(labels MenuLabels) *Normalizer {
	return &Normalizer{labels: labels}
}

// Normalize returns the normalized event and whether the update carried
// anything addressable at all.
func (n *Normalizer) Normalize(u Update) (bot.Event, bool) {
	if u.Callback != nil && u.Callback.From != nil && u.Callback.Message != nil {
		ev := bot.Event{
			UserID: u.Callback.From.ID,
			ChatID: u.Callback.Message.Chat.ID,
			Kind:   bot.KindButton,
		}
		switch u.Callback.Data {
		case CallbackTalk:
			ev.Button = bot.ButtonTalk
		case CallbackImage:
			ev.Button = bot.ButtonImage
		case CallbackAvatar:
			ev.Button = bot.ButtonAvatar
		default:
			ev.Button = bot.ButtonMenu
		}
		return ev, true
	}

	m := u.Message
	if m == nil || m.From == nil {
		return bot.Event{}, false
	}

	ev := bot.Event{
		UserID: m.From.ID,
		ChatID: m.Chat.ID,
	}

	if m.Voice != nil {
		ev.Kind = bot.KindVoice
		ev.Voice = bot.VoiceRef{FileID: m.Voice.FileID, Duration: m.Voice.Duration}
		return ev, true
	}

	text := strings.TrimSpace(m.Text)
	switch {
	case text == "":
		ev.Kind = bot.KindUnsupported
	case text == n.labels.Talk:
		ev.Kind = bot.KindButton
		ev.Button = bot.ButtonTalk
	case text == n.labels.Image:
		ev.Kind = bot.KindButton
		ev.Button = bot.ButtonImage
	case text == n.labels.Avatar:
		ev.Kind = bot.KindButton
		ev.Button = bot.ButtonAvatar
	case strings.HasPrefix(text, "/"):
		// /start, /help and any other command render the menu and leave
		// session state alone.
		ev.Kind = bot.KindButton
		ev.Button = bot.ButtonMenu
	default:
		ev.Kind = bot.KindText
		ev.Text = text
	}
	return ev, true
}
