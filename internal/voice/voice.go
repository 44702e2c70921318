// Package voice defines speech input for searches. Recognition itself is provided by
// the client; the server side only consumes transcripts.
package voice

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/hyperjump/shokugyo/internal/i18n"
)

var (
	// ErrUnsupported is returned when no speech recognition is available.
	ErrUnsupported = errors.New("voice search not supported")
	// ErrNoSpeech is returned when recognition produced no text.
	ErrNoSpeech = errors.New("no speech detected")
	// ErrPermissionDenied is returned when the microphone cannot be used.
	ErrPermissionDenied = errors.New("microphone permission denied")
)

// Transcript is the text recognized from one utterance.
type Transcript struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	// Locale is the speech locale used, e.g. "hi-IN".
	Locale string `json:"locale"`
}

// Recognizer turns one utterance in the given language into text.
type Recognizer interface {
	Recognize(ctx context.Context, language string) (Transcript, error)
}

// Unsupported is a Recognizer for environments without speech input.
type Unsupported struct{}

// Recognize always fails with ErrUnsupported.
func (Unsupported) Recognize(context.Context, string) (Transcript, error) {
	return Transcript{}, ErrUnsupported
}

// ReaderRecognizer reads transcripts produced by an external recognizer, one per line.
// A line may end with a tab and a confidence between 0 and 1.
type ReaderRecognizer struct {
	mu      sync.Mutex
	scanner *bufio.Scanner
}

// NewReaderRecognizer reads transcripts from r.
func NewReaderRecognizer(r io.Reader) *ReaderRecognizer {
	return &ReaderRecognizer{scanner: bufio.NewScanner(r)}
}

// Recognize returns the next transcript line. A blank line yields ErrNoSpeech; end of
// input yields io.EOF.
func (r *ReaderRecognizer) Recognize(ctx context.Context, language string) (Transcript, error) {
	if err := ctx.Err(); err != nil {
		return Transcript{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return Transcript{}, fmt.Errorf("failed to read transcript: %w", err)
		}
		return Transcript{}, io.EOF
	}

	t := Transcript{Confidence: 1, Locale: i18n.VoiceCode(language)}
	line := r.scanner.Text()
	if text, conf, ok := strings.Cut(line, "\t"); ok {
		c, err := strconv.ParseFloat(strings.TrimSpace(conf), 64)
		if err != nil || c < 0 || c > 1 {
			return Transcript{}, fmt.Errorf("invalid confidence %q", conf)
		}
		line, t.Confidence = text, c
	}
	t.Text = strings.TrimSpace(line)
	if t.Text == "" {
		return Transcript{}, ErrNoSpeech
	}
	return t, nil
}

// Message returns the user-facing text for a recognition error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUnsupported):
		return "Voice recognition not supported in this environment"
	case errors.Is(err, ErrNoSpeech):
		return "No speech detected. Please try again."
	case errors.Is(err, ErrPermissionDenied):
		return "Microphone access denied. Please enable microphone permissions."
	case err == nil:
		return ""
	default:
		return "Voice recognition error: " + err.Error()
	}
}
