package tracing

import (
	"context"
	"testing"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup("")
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown returned error: %v", err)
	}
}

func TestSetupZipkin(t *testing.T) {
	shutdown, err := Setup("http://127.0.0.1:9411/api/v2/spans")
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown returned error: %v", err)
	}
}

func TestSetupBadURL(t *testing.T) {
	if _, err := Setup("://nope"); err == nil {
		t.Error("expected error for malformed collector URL")
	}
}
