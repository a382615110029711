package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" info ":  zerolog.InfoLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.WarnLevel,
		"verbose": zerolog.WarnLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitOnlyOnce(t *testing.T) {
	Reset()
	defer Reset()

	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first})
	log := Init(Options{Level: "info", Output: &second})
	log.Info().Msg("hello")

	if !strings.Contains(first.String(), "hello") {
		t.Fatalf("first writer missing log line: %q", first.String())
	}
	if second.Len() != 0 {
		t.Fatalf("second Init should be ignored, got %q", second.String())
	}
}

func TestResetAllowsReinit(t *testing.T) {
	Reset()
	defer Reset()

	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first})
	Reset()
	log := Init(Options{Level: "info", Output: &second})
	log.Info().Msg("again")

	if !strings.Contains(second.String(), "again") {
		t.Fatalf("Init after Reset ignored: %q", second.String())
	}
}
