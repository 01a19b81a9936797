package capability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenRouterCompleteParsesChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key-1" {
			t.Errorf("Authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "hello" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": "hi there"}}},
		})
	}))
	defer srv.Close()

	c := NewOpenRouterClient(OpenRouterConfig{APIKey: "key-1", BaseURL: srv.URL})
	got, err := c.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "hi there" {
		t.Fatalf("Complete() = %q, want %q", got, "hi there")
	}
}

func TestOpenRouterCompleteSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewOpenRouterClient(OpenRouterConfig{BaseURL: srv.URL})
	if _, err := c.Complete(context.Background(), "hello"); err == nil {
		t.Fatalf("Complete() expected error on 429")
	}
}

func TestImagesGenerateUsesVariantProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req imageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "avatar-model" || req.Size != "256x256" {
			t.Errorf("profile not applied: %+v", req)
		}
		if req.Prompt != "a red fox" {
			t.Errorf("prompt = %q", req.Prompt)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"url": "https://img.example/fox.png"}},
		})
	}))
	defer srv.Close()

	c := NewImagesClient(ImagesConfig{
		BaseURL: srv.URL,
		Profiles: map[Variant]ImageProfile{
			VariantAvatar: {Model: "avatar-model", Size: "256x256"},
		},
	})
	got, err := c.Generate(context.Background(), "a red fox", VariantAvatar)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got.URL != "https://img.example/fox.png" {
		t.Fatalf("URL = %q", got.URL)
	}
}

func TestImagesGenerateRejectsUnknownVariant(t *testing.T) {
	c := NewImagesClient(ImagesConfig{BaseURL: "http://example.test"})
	if _, err := c.Generate(context.Background(), "p", Variant("banner")); err == nil {
		t.Fatalf("Generate() expected error for unknown variant")
	}
}

func TestTranscribeSendsMultipartAndParsesText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model = %q", got)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			f.Close()
			if hdr.Filename != "voice.mp3" {
				t.Errorf("filename = %q", hdr.Filename)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text": " hello world "})
	}))
	defer srv.Close()

	c := NewTranscribeClient(TranscribeConfig{BaseURL: srv.URL})
	got, err := c.Transcribe(context.Background(), strings.NewReader("fake-audio"), "voice.mp3")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got != "hello world" {
		t.Fatalf("Transcribe() = %q, want %q", got, "hello world")
	}
}

func TestTranscribeSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad audio", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewTranscribeClient(TranscribeConfig{BaseURL: srv.URL})
	if _, err := c.Transcribe(context.Background(), strings.NewReader("x"), "voice.mp3"); err == nil {
		t.Fatalf("Transcribe() expected error on 400")
	}
}
