package capability

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// MockSet returns a capability set that answers locally. Used when no API
// keys are configured, so the bot stays demoable offline.
func MockSet() Set {
	return Set{
		Completer:   &MockCompleter{},
		Images:      &MockImageGenerator{},
		Transcriber: &MockTranscriber{},
		Synthesizer: &MockSynthesizer{},
	}
}

type MockCompleter struct{}

func (m *MockCompleter) Complete(_ context.Context, prompt string) (string, error) {
	return "You said: " + strings.TrimSpace(prompt), nil
}

type MockImageGenerator struct{}

func (m *MockImageGenerator) Generate(_ context.Context, prompt string, variant Variant) (ImageResult, error) {
	return ImageResult{URL: fmt.Sprintf("https://placehold.co/512?text=%s+%s", variant, strings.TrimSpace(prompt))}, nil
}

type MockTranscriber struct{}

func (m *MockTranscriber) Transcribe(_ context.Context, audio io.Reader, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, audio); err != nil {
		return "", err
	}
	return "simulated voice input", nil
}

type MockSynthesizer struct{}

func (m *MockSynthesizer) Synthesize(_ context.Context, text string) ([]byte, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", fmt.Errorf("empty synthesis text")
	}
	return []byte(text), "mock_text_bytes", nil
}
