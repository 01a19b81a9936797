package capability

import (
	"context"
	"io"
)

// Variant selects the image-generation profile for a prompt.
type Variant string

const (
	VariantImage  Variant = "image"
	VariantAvatar Variant = "avatar"
)

// ImageResult carries a generated image as either a remote URL or inline
// bytes, whichever the provider returned.
type ImageResult struct {
	URL   string
	Bytes []byte
}

// Completer produces a text reply for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator produces an image for a prompt and variant.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, variant Variant) (ImageResult, error)
}

// Transcriber turns an audio stream into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Synthesizer turns text into a voice clip, returning the audio bytes and
// a format label.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, string, error)
}

// Set bundles the four external capabilities the orchestrator drives.
type Set struct {
	Completer   Completer
	Images      ImageGenerator
	Transcriber Transcriber
	Synthesizer Synthesizer
}
