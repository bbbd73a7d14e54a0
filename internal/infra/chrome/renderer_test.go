package chrome

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRenderHTML_ErrorWhenBinaryMissing(t *testing.T) {
	r := NewRenderer(Options{ExecPath: "/definitely/missing/chrome", NoSandbox: true, Timeout: time.Second})
	if _, err := r.RenderHTML(context.Background(), "<html><body>hello</body></html>"); err == nil {
		t.Fatalf("expected render error with missing chrome binary")
	}
}

func TestRenderInTab_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderInTab(ctx, "<html>hello world</html>"); err == nil {
		t.Fatalf("expected canceled-context error")
	}
}

func TestNewRenderer_DefaultTimeout(t *testing.T) {
	if r := NewRenderer(Options{}); r.opts.Timeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %v", r.opts.Timeout)
	}
}

func TestIsSessionInterrupted(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "context canceled", err: context.Canceled, want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "target closed", err: errors.New("target closed"), want: true},
		{name: "missing binary", err: errors.New(`exec: "chrome": executable file not found`), want: true},
		{name: "normal error", err: errors.New("validation failed"), want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsSessionInterrupted(tc.err); got != tc.want {
				t.Fatalf("IsSessionInterrupted(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
