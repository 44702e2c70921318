package voice

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestUnsupported(t *testing.T) {
	var r Recognizer = Unsupported{}
	if _, err := r.Recognize(context.Background(), "en"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestReaderRecognizer(t *testing.T) {
	input := "software developer\n  farm worker \t0.82\n\ncook\tabc\n"
	r := NewReaderRecognizer(strings.NewReader(input))
	ctx := context.Background()

	got, err := r.Recognize(ctx, "en")
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "software developer" || got.Confidence != 1 || got.Locale != "en-US" {
		t.Errorf("first transcript = %+v", got)
	}

	got, err = r.Recognize(ctx, "hi")
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "farm worker" || got.Confidence != 0.82 || got.Locale != "hi-IN" {
		t.Errorf("second transcript = %+v", got)
	}

	if _, err := r.Recognize(ctx, "en"); !errors.Is(err, ErrNoSpeech) {
		t.Errorf("expected ErrNoSpeech, got %v", err)
	}
	if _, err := r.Recognize(ctx, "en"); err == nil {
		t.Error("expected invalid confidence error")
	}
	if _, err := r.Recognize(ctx, "en"); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestReaderRecognizer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewReaderRecognizer(strings.NewReader("cook\n"))
	if _, err := r.Recognize(ctx, "en"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMessage(t *testing.T) {
	if Message(nil) != "" {
		t.Error("expected empty message for nil")
	}
	if Message(ErrNoSpeech) != "No speech detected. Please try again." {
		t.Errorf("unexpected message %q", Message(ErrNoSpeech))
	}
	if !strings.Contains(Message(errors.New("network")), "network") {
		t.Error("expected wrapped message")
	}
}
