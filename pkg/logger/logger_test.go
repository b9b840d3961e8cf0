package logger

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitAndContextLogging(t *testing.T) {
	Init("development")
	if GetLogger() == nil {
		t.Fatal("expected logger initialized")
	}

	ctx := WithMerchant(WithRequestID(context.Background(), "req-1"), "pub-1")
	if WithContext(ctx) == nil {
		t.Fatal("expected contextual logger")
	}

	Info(ctx, "info")
	Debug(ctx, "debug")
	Warn(ctx, "warn")
	Error(ctx, "error")
	LogRequest(ctx, "GET", "/health", 200, 10*time.Millisecond, "127.0.0.1")
	Sync()
}

func TestWithContextNil(t *testing.T) {
	Init("development")
	if WithContext(nil) == nil {
		t.Fatal("expected base logger for nil context")
	}
}

func TestWithContext_AddsFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	orig := log
	log = zap.New(core)
	t.Cleanup(func() { log = orig })

	ctx := WithMerchant(WithRequestID(context.Background(), "req-42"), "pub-42")
	Info(ctx, "hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-42" || fields["merchant"] != "pub-42" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}

func TestInit_ProductionAndWithContextWithoutFields(t *testing.T) {
	// reset package singleton to cover production init branch deterministically
	log = zap.NewNop()
	once = sync.Once{}

	Init("production")
	if GetLogger() == nil {
		t.Fatal("expected production logger initialized")
	}

	if WithContext(context.Background()) == nil {
		t.Fatal("expected logger without contextual fields")
	}
}

func TestSetLogger_NilFallsBackToNop(t *testing.T) {
	orig := log
	t.Cleanup(func() { log = orig })

	SetLogger(nil)
	if GetLogger() == nil {
		t.Fatal("expected nop logger")
	}
	Info(context.Background(), "dropped")
}
