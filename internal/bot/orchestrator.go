package bot

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/antoniostano/voxbot/internal/capability"
	"github.com/antoniostano/voxbot/internal/media"
	"github.com/antoniostano/voxbot/internal/observability"
	"github.com/antoniostano/voxbot/internal/session"
)

const (
	sourceAudioName = "voice.ogg"
	transcodedName  = "voice.mp3"
	replyAudioName  = "reply.mp3"
)

// Orchestrator decides, per inbound event, which capabilities to invoke
// and in what order, and owns the per-user mode transitions.
type Orchestrator struct {
	sessions    *session.Store
	caps        capability.Set
	staging     *media.Staging
	transcoder  media.Transcoder
	composer    *Composer
	metrics     *observability.Metrics
	callTimeout time.Duration
}

func NewOrchestrator(
	sessions *session.Store,
	caps capability.Set,
	staging *media.Staging,
	transcoder media.Transcoder,
	composer *Composer,
	metrics *observability.Metrics,
	callTimeout time.Duration,
) *Orchestrator {
	if callTimeout <= 0 {
		callTimeout = 45 * time.Second
	}
	return &Orchestrator{
		sessions:    sessions,
		caps:        caps,
		staging:     staging,
		transcoder:  transcoder,
		composer:    composer,
		metrics:     metrics,
		callTimeout: callTimeout,
	}
}

// HandleEvent processes one normalized inbound event. It never returns an
// error: every failure is absorbed into a user-visible reply so nothing
// propagates to the transport layer as a fault.
func (o *Orchestrator) HandleEvent(ctx context.Context, ev Event) {
	o.metrics.UpdatesTotal.WithLabelValues(string(ev.Kind)).Inc()

	switch ev.Kind {
	case KindButton:
		o.handleButton(ctx, ev)
	case KindText:
		o.handleText(ctx, ev)
	case KindVoice:
		o.handleVoice(ctx, ev)
	default:
		o.reply(ctx, ev.ChatID, msgUnsupported)
	}
}

func (o *Orchestrator) handleButton(ctx context.Context, ev Event) {
	switch ev.Button {
	case ButtonImage:
		o.sessions.SetMode(ev.UserID, session.ModeAwaitingImagePrompt)
		o.reply(ctx, ev.ChatID, msgDescribeImage)
	case ButtonAvatar:
		o.sessions.SetMode(ev.UserID, session.ModeAwaitingAvatarPrompt)
		o.reply(ctx, ev.ChatID, msgDescribeAvatar)
	case ButtonTalk:
		o.sessions.SetMode(ev.UserID, session.ModeIdle)
		o.reply(ctx, ev.ChatID, msgSendVoice)
	default:
		// /start, /help and anything menu-shaped: show the keyboard,
		// leave session state alone.
		if err := o.composer.Menu(ctx, ev.ChatID, msgMenu); err != nil {
			log.Printf("send menu failed: chat=%d err=%v", ev.ChatID, err)
		} else {
			o.metrics.RepliesTotal.WithLabelValues("menu").Inc()
		}
	}
}

// handleText consumes the pending mode in one atomic step: whatever
// happens next, the user is back on Idle and a failed generation cannot
// leave the conversation stuck awaiting a prompt.
func (o *Orchestrator) handleText(ctx context.Context, ev Event) {
	switch o.sessions.ConsumeMode(ev.UserID) {
	case session.ModeAwaitingImagePrompt:
		o.generateImage(ctx, ev, capability.VariantImage)
	case session.ModeAwaitingAvatarPrompt:
		o.generateImage(ctx, ev, capability.VariantAvatar)
	default:
		o.complete(ctx, ev)
	}
}

func (o *Orchestrator) generateImage(ctx context.Context, ev Event, variant capability.Variant) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	image, err := o.caps.Images.Generate(callCtx, ev.Text, variant)
	if err != nil {
		o.capabilityFailed(ctx, ev.ChatID, "imagegen", msgImageFailed, err)
		return
	}
	if err := o.composer.Photo(ctx, ev.ChatID, image, ""); err != nil {
		log.Printf("send photo failed: chat=%d err=%v", ev.ChatID, err)
		return
	}
	o.metrics.RepliesTotal.WithLabelValues("photo").Inc()
}

func (o *Orchestrator) complete(ctx context.Context, ev Event) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	text, err := o.caps.Completer.Complete(callCtx, ev.Text)
	if err != nil {
		o.capabilityFailed(ctx, ev.ChatID, "completion", msgCompletionFailed, err)
		return
	}
	o.reply(ctx, ev.ChatID, text)
}

// handleVoice runs the fixed voice round-trip, independent of the user's
// menu mode. Stages abort early on failure; everything staged on disk is
// released by the single deferred cleanup regardless of how the pipeline
// exits.
func (o *Orchestrator) handleVoice(ctx context.Context, ev Event) {
	job, err := o.staging.Begin()
	if err != nil {
		log.Printf("stage voice job: user=%d err=%v", ev.UserID, err)
		o.reply(ctx, ev.ChatID, msgVoiceFailed)
		return
	}
	o.metrics.ActiveMediaJobs.Inc()
	defer func() {
		job.Cleanup()
		o.metrics.ActiveMediaJobs.Dec()
	}()

	if err := o.acquireVoice(ctx, job, ev.Voice.FileID); err != nil {
		log.Printf("acquire voice: job=%s err=%v", job.ID(), err)
		o.reply(ctx, ev.ChatID, msgVoiceFailed)
		return
	}

	if err := o.transcode(ctx, job); err != nil {
		log.Printf("transcode voice: job=%s err=%v", job.ID(), err)
		o.reply(ctx, ev.ChatID, msgVoiceFailed)
		return
	}

	recognized, err := o.transcribe(ctx, job)
	if err != nil || recognized == "" {
		o.capabilityFailed(ctx, ev.ChatID, "transcription", msgNoSpeech, err)
		return
	}
	// Echo the recognized text before generating a reply so the user sees
	// intermediate progress even if a later stage fails.
	o.reply(ctx, ev.ChatID, echoPrefix+recognized)

	replyText, err := o.completeStage(ctx, recognized)
	if err != nil {
		o.capabilityFailed(ctx, ev.ChatID, "completion", msgCompletionFailed, err)
		return
	}

	clip, err := o.synthesize(ctx, job, replyText)
	if err != nil {
		// Degrade to plain text rather than dropping the reply.
		o.metrics.CapabilityErrors.WithLabelValues("speech").Inc()
		log.Printf("synthesize reply: job=%s err=%v", job.ID(), err)
		o.reply(ctx, ev.ChatID, replyText)
		return
	}
	defer clip.Close()

	if err := o.composer.Voice(ctx, ev.ChatID, clip, replyText); err != nil {
		log.Printf("send voice failed: chat=%d err=%v", ev.ChatID, err)
		return
	}
	o.metrics.RepliesTotal.WithLabelValues("voice").Inc()
}

func (o *Orchestrator) acquireVoice(ctx context.Context, job *media.Job, fileID string) error {
	start := time.Now()
	defer func() { o.metrics.ObserveVoiceStage("acquire", time.Since(start)) }()

	dst, err := job.Create(sourceAudioName)
	if err != nil {
		return err
	}
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	err = o.composer.transport.DownloadVoice(callCtx, fileID, dst)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (o *Orchestrator) transcode(ctx context.Context, job *media.Job) error {
	start := time.Now()
	defer func() { o.metrics.ObserveVoiceStage("transcode", time.Since(start)) }()

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	return o.transcoder.Transcode(callCtx, job.Path(sourceAudioName), job.Path(transcodedName))
}

func (o *Orchestrator) transcribe(ctx context.Context, job *media.Job) (string, error) {
	start := time.Now()
	defer func() { o.metrics.ObserveVoiceStage("transcribe", time.Since(start)) }()

	src, err := job.Open(transcodedName)
	if err != nil {
		return "", err
	}
	defer src.Close()

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	return o.caps.Transcriber.Transcribe(callCtx, src, transcodedName)
}

func (o *Orchestrator) completeStage(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	defer func() { o.metrics.ObserveVoiceStage("complete", time.Since(start)) }()

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	return o.caps.Completer.Complete(callCtx, prompt)
}

// synthesize stages the clip inside the job so the deferred cleanup also
// covers the synthesized audio handle.
func (o *Orchestrator) synthesize(ctx context.Context, job *media.Job, text string) (io.ReadCloser, error) {
	start := time.Now()
	defer func() { o.metrics.ObserveVoiceStage("synthesize", time.Since(start)) }()

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	audio, _, err := o.caps.Synthesizer.Synthesize(callCtx, text)
	if err != nil {
		return nil, err
	}

	dst, err := job.Create(replyAudioName)
	if err != nil {
		return nil, err
	}
	if _, err := dst.Write(audio); err != nil {
		dst.Close()
		return nil, err
	}
	if err := dst.Close(); err != nil {
		return nil, err
	}
	return job.Open(replyAudioName)
}

func (o *Orchestrator) capabilityFailed(ctx context.Context, chatID int64, capabilityName, message string, err error) {
	o.metrics.CapabilityErrors.WithLabelValues(capabilityName).Inc()
	if err != nil {
		log.Printf("%s failed: chat=%d err=%v", capabilityName, chatID, err)
	}
	o.reply(ctx, chatID, message)
}

func (o *Orchestrator) reply(ctx context.Context, chatID int64, text string) {
	if err := o.composer.Text(ctx, chatID, text); err != nil {
		log.Printf("send text failed: chat=%d err=%v", chatID, err)
		return
	}
	o.metrics.RepliesTotal.WithLabelValues("text").Inc()
}
