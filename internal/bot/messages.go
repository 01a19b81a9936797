package bot

// User-facing replies. Kept in one place so the wording can be localized
// without touching control flow; defaults match the original deployment's
// Russian texts.
const (
	msgMenu           = "Привет! Я бот 🤖. Что хочешь сделать?"
	msgSendVoice      = "Отправь мне голосовое сообщение 🎙️"
	msgDescribeImage  = "Опиши изображение, которое нужно создать:"
	msgDescribeAvatar = "Опиши аватар, который нужно создать:"

	msgCompletionFailed = "Извини, не получилось придумать ответ 😔 Попробуй ещё раз."
	msgImageFailed      = "Извини, не получилось создать картинку 😔 Попробуй ещё раз."
	msgVoiceFailed      = "Не получилось обработать голосовое сообщение 😔"
	msgNoSpeech         = "Не удалось распознать речь 😔"
	msgUnsupported      = "Я понимаю только текст, кнопки и голосовые сообщения 🤷"

	echoPrefix = "Ты сказал: "
)
