package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("nopHandler.Enabled(%v) = true, want false", level)
		}
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("nopHandler.Handle() = %v, want nil", err)
	}
	if _, ok := h.WithAttrs([]slog.Attr{slog.String("k", "v")}).(nopHandler); !ok {
		t.Errorf("nopHandler.WithAttrs() changed handler type")
	}
	if _, ok := h.WithGroup("g").(nopHandler); !ok {
		t.Errorf("nopHandler.WithGroup() changed handler type")
	}
}

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(custom)
	if Logger() != custom {
		t.Fatal("Logger() did not return the logger set via SetLogger")
	}

	if _, err := Convert(OKLCH{L: 0.6, C: 0.5, H: 30}); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"linear display p3", "color out of Display P3 gamut; clipped"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}

func TestCLILogger(t *testing.T) {
	var buf bytes.Buffer
	l := newCLILogger(&buf, false)
	l.Info("hidden")
	l.Warn("shown", "n", 1)
	if got := buf.String(); got != "level=WARN msg=shown n=1\n" {
		t.Fatalf("output = %q", got)
	}

	buf.Reset()
	newCLILogger(&buf, true).Debug("detail")
	if !strings.Contains(buf.String(), "level=DEBUG msg=detail") {
		t.Fatalf("verbose logger dropped debug record: %q", buf.String())
	}
}
