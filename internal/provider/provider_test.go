package provider

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsConnectionFault(t *testing.T) {
	if IsConnectionFault(nil) {
		t.Error("nil error classified as connection fault")
	}
	if IsConnectionFault(errors.New("rate limited")) {
		t.Error("plain error classified as connection fault")
	}

	wrapped := fmt.Errorf("%w: dial tcp: connection refused", ErrConnection)
	if !IsConnectionFault(wrapped) {
		t.Error("wrapped ErrConnection not classified as connection fault")
	}
	doubleWrapped := fmt.Errorf("generate candidate: %w", wrapped)
	if !IsConnectionFault(doubleWrapped) {
		t.Error("nested ErrConnection not classified as connection fault")
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Error("expected error when no API key is configured")
	}
}

func TestNewClient_WithAPIKey(t *testing.T) {
	c, err := NewClient(ClientConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if c.Model() == "" {
		t.Error("default model not set")
	}
}

func TestTokenTracker(t *testing.T) {
	tr := NewTokenTracker()

	tr.Add(100, 50)
	tr.Add(200, 100)

	in, out := tr.Total()
	if in != 300 || out != 150 {
		t.Errorf("Total = (%d, %d), want (300, 150)", in, out)
	}
	if tr.Calls() != 2 {
		t.Errorf("Calls = %d, want 2", tr.Calls())
	}
	if tr.Cost() <= 0 {
		t.Error("Cost should be positive after usage")
	}

	tr.Reset()
	in, out = tr.Total()
	if in != 0 || out != 0 || tr.Calls() != 0 {
		t.Error("Reset did not clear tracker")
	}
}
