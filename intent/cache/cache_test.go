package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLabelKey(t *testing.T) {
	t.Parallel()

	a := labelKey("", "hello")
	if !strings.HasPrefix(a, DefaultKeyPrefix) {
		t.Fatalf("labelKey() = %q, want default prefix", a)
	}
	if len(a) != len(DefaultKeyPrefix)+64 {
		t.Fatalf("labelKey() length = %d", len(a))
	}
	if a == labelKey("", "hello ") {
		t.Fatal("keys must differ for different text")
	}
	if got := labelKey("p:", "hello"); !strings.HasPrefix(got, "p:") {
		t.Fatalf("labelKey() = %q, want custom prefix", got)
	}
}

func TestMemoryGetSet(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	if _, ok, _ := m.Get(ctx, "hi"); ok {
		t.Fatal("empty cache must miss")
	}
	if err := m.Set(ctx, "hi", "greet"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	label, ok, err := m.Get(ctx, "hi")
	if err != nil || !ok || label != "greet" {
		t.Fatalf("Get() = %q, %v, %v; want greet, true, nil", label, ok, err)
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
}

type recordedCommand []any

func newUpstashServer(t *testing.T, reply string, got *[]recordedCommand) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		var cmd recordedCommand
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			t.Errorf("decode command: %v", err)
		}
		*got = append(*got, cmd)
		fmt.Fprint(w, reply)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestUpstashSetUsesHashedKeyAndTTL(t *testing.T) {
	t.Parallel()

	var got []recordedCommand
	server := newUpstashServer(t, `{"result":"OK"}`, &got)

	store, err := NewUpstash(
		UpstashConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
		WithKeyPrefix("test:"),
		WithTTL(90*time.Minute),
	)
	if err != nil {
		t.Fatalf("NewUpstash() error = %v", err)
	}

	if err := store.Set(context.Background(), "hello", "greet"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("commands = %d, want 1", len(got))
	}
	cmd := got[0]
	if len(cmd) != 5 || cmd[0] != "SET" || cmd[2] != "greet" || cmd[3] != "EX" {
		t.Fatalf("unexpected command: %#v", cmd)
	}
	if cmd[1] != labelKey("test:", "hello") {
		t.Fatalf("key = %v, want %s", cmd[1], labelKey("test:", "hello"))
	}
	if cmd[4] != float64(5400) {
		t.Fatalf("ttl = %v, want 5400", cmd[4])
	}
}

func TestUpstashSetWithoutTTL(t *testing.T) {
	t.Parallel()

	var got []recordedCommand
	server := newUpstashServer(t, `{"result":"OK"}`, &got)

	store, err := NewUpstash(UpstashConfig{URL: server.URL, Token: "token"}, WithHTTPClient(server.Client()), WithTTL(0))
	if err != nil {
		t.Fatalf("NewUpstash() error = %v", err)
	}
	if err := store.Set(context.Background(), "hello", "greet"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if len(got[0]) != 3 {
		t.Fatalf("unexpected command: %#v", got[0])
	}
}

func TestUpstashGetHitAndMiss(t *testing.T) {
	t.Parallel()

	var got []recordedCommand
	hit := newUpstashServer(t, `{"result":"greet"}`, &got)
	store, err := NewUpstash(UpstashConfig{URL: hit.URL, Token: "token"}, WithHTTPClient(hit.Client()))
	if err != nil {
		t.Fatalf("NewUpstash() error = %v", err)
	}
	label, ok, err := store.Get(context.Background(), "hello")
	if err != nil || !ok || label != "greet" {
		t.Fatalf("Get() = %q, %v, %v; want greet, true, nil", label, ok, err)
	}
	if got[0][0] != "GET" || got[0][1] != labelKey(DefaultKeyPrefix, "hello") {
		t.Fatalf("unexpected command: %#v", got[0])
	}

	var gotMiss []recordedCommand
	miss := newUpstashServer(t, `{"result":null}`, &gotMiss)
	store, err = NewUpstash(UpstashConfig{URL: miss.URL, Token: "token"}, WithHTTPClient(miss.Client()))
	if err != nil {
		t.Fatalf("NewUpstash() error = %v", err)
	}
	if _, ok, err := store.Get(context.Background(), "hello"); err != nil || ok {
		t.Fatalf("Get() ok=%v err=%v; want miss without error", ok, err)
	}
}

func TestUpstashErrorReply(t *testing.T) {
	t.Parallel()

	var got []recordedCommand
	server := newUpstashServer(t, `{"error":"WRONGPASS"}`, &got)
	store, err := NewUpstash(UpstashConfig{URL: server.URL, Token: "token"}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstash() error = %v", err)
	}
	if _, _, err := store.Get(context.Background(), "hello"); err == nil || !strings.Contains(err.Error(), "WRONGPASS") {
		t.Fatalf("Get() error = %v, want WRONGPASS", err)
	}
}

func TestNewUpstashValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewUpstash(UpstashConfig{Token: "t"}); err == nil {
		t.Fatal("expected error for missing url")
	}
	if _, err := NewUpstash(UpstashConfig{URL: "http://localhost"}); err == nil {
		t.Fatal("expected error for missing token")
	}
	if _, err := NewUpstash(UpstashConfig{URL: "http://localhost", Token: "t"}, WithTTL(-time.Second)); err == nil {
		t.Fatal("expected error for negative ttl")
	}
}

func TestTTLSecondsRoundsUp(t *testing.T) {
	t.Parallel()

	if got := ttlSeconds(1500 * time.Millisecond); got != 2 {
		t.Fatalf("ttlSeconds(1.5s) = %d, want 2", got)
	}
	if got := ttlSeconds(time.Millisecond); got != 1 {
		t.Fatalf("ttlSeconds(1ms) = %d, want 1", got)
	}
}

func TestNewRedisValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewRedis(RedisConfig{Addr: " "}); err == nil {
		t.Fatal("expected error for empty addr")
	}
	r, err := NewRedis(RedisConfig{Addr: "localhost:6379"}, WithKeyPrefix("x:"))
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	if r.keyPrefix != "x:" || r.ttl != defaultTTL {
		t.Fatalf("unexpected redis cache settings: prefix=%q ttl=%v", r.keyPrefix, r.ttl)
	}
}
