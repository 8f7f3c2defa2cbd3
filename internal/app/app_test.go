package app

import (
	"context"
	"testing"

	"github.com/plazadigital/tribubot/internal/testutil"
)

func TestCloseOnZeroApp(t *testing.T) {
	a := &App{}
	if err := a.Close(); err != nil {
		t.Fatalf("Close() on zero App: %v", err)
	}
}

func TestCloseRunsCleanupsOnce(t *testing.T) {
	var db, otel int
	a := &App{
		Logger:      testutil.SilentLogger(),
		dbCleanup:   func() { db++ },
		otelCleanup: func() { otel++ },
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second Close(): %v", err)
	}

	if db != 1 {
		t.Errorf("db cleanup ran %d times, want 1", db)
	}
	if otel != 1 {
		t.Errorf("otel cleanup ran %d times, want 1", otel)
	}
}

func TestSetupRequiresConfig(t *testing.T) {
	if _, err := Setup(context.Background(), nil, testutil.SilentLogger()); err == nil {
		t.Fatal("Setup(nil config) should fail")
	}
}

func TestQualifiedModel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"gemini-2.5-flash", "googleai/gemini-2.5-flash"},
		{"googleai/gemini-2.5-flash", "googleai/gemini-2.5-flash"},
		{"vertexai/gemini-2.5-pro", "vertexai/gemini-2.5-pro"},
	}
	for _, tt := range tests {
		if got := qualifiedModel(tt.in); got != tt.want {
			t.Errorf("qualifiedModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
