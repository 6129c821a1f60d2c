package natsutil

import (
	"context"
	"testing"

	"github.com/nats-io/nats.go"
)

type discoveredEvent struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
}

func TestNatsHeaderCarrier(t *testing.T) {
	msg := &nats.Msg{}
	carrier := (*natsHeaderCarrier)(msg)

	carrier.Set("traceparent", "00-abc-def-01")
	if got := carrier.Get("traceparent"); got != "00-abc-def-01" {
		t.Fatalf("expected traceparent, got %q", got)
	}
	if keys := carrier.Keys(); len(keys) != 1 {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestNatsHeaderCarrierNilHeader(t *testing.T) {
	carrier := (*natsHeaderCarrier)(&nats.Msg{})
	if got := carrier.Get("missing"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if keys := carrier.Keys(); keys != nil {
		t.Fatalf("expected nil keys, got %v", keys)
	}
}

func TestDecodeInto(t *testing.T) {
	var got discoveredEvent
	handler := decodeInto(func(_ context.Context, v discoveredEvent) { got = v })

	handler(&nats.Msg{Data: []byte(`{"video_id":"abc","title":"הלכה יומית"}`)})
	if got.VideoID != "abc" || got.Title != "הלכה יומית" {
		t.Fatalf("decoded = %+v", got)
	}
}

func TestDecodeInto_DropsMalformed(t *testing.T) {
	called := false
	handler := decodeInto(func(context.Context, discoveredEvent) { called = true })

	handler(&nats.Msg{Data: []byte("{invalid json")})
	if called {
		t.Fatal("handler should not run for malformed payloads")
	}
}
