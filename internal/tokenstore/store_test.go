package tokenstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ErlanBelekov/bookshelf/internal/tokenstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// exercise runs the common Get/Set/Remove contract against s.
func exercise(t *testing.T, s tokenstore.Store) {
	t.Helper()
	ctx := context.Background()

	if tok, err := s.Get(ctx); err != nil || tok != "" {
		t.Fatalf("fresh store: got (%q, %v), want empty", tok, err)
	}
	if err := s.Set(ctx, "t1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if tok, _ := s.Get(ctx); tok != "t1" {
		t.Fatalf("after set: got %q, want t1", tok)
	}
	if err := s.Set(ctx, "t2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if tok, _ := s.Get(ctx); tok != "t2" {
		t.Fatalf("after overwrite: got %q, want t2", tok)
	}
	if err := s.Remove(ctx); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if tok, _ := s.Get(ctx); tok != "" {
		t.Fatalf("after remove: got %q, want empty", tok)
	}
	if err := s.Remove(ctx); err != nil {
		t.Fatalf("second remove must be a no-op, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exercise(t, tokenstore.NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	s, err := tokenstore.NewFileStore(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	exercise(t, s)
}

func TestFileStore_PersistsAcrossInstancesWithPrivatePerms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	ctx := context.Background()

	first, _ := tokenstore.NewFileStore(path)
	if err := first.Set(ctx, "persisted"); err != nil {
		t.Fatalf("set: %v", err)
	}

	second, _ := tokenstore.NewFileStore(path)
	tok, err := second.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tok != "persisted" {
		t.Errorf("got %q, want persisted", tok)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, _ := tokenstore.NewFileStore(path)
	if _, err := s.Get(context.Background()); err == nil {
		t.Fatal("expected decode error for corrupt credentials")
	}
}

func TestNewFileStore_EmptyPath(t *testing.T) {
	if _, err := tokenstore.NewFileStore("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisStore(t *testing.T) {
	_, rdb := newMiniredis(t)
	exercise(t, tokenstore.NewRedisStore(rdb, "sid-1", time.Hour))
}

func TestRedisStore_SessionsAreIsolatedAndExpire(t *testing.T) {
	mr, rdb := newMiniredis(t)
	ctx := context.Background()

	a := tokenstore.NewRedisStore(rdb, "a", time.Minute)
	b := tokenstore.NewRedisStore(rdb, "b", time.Minute)
	if err := a.Set(ctx, "token-a"); err != nil {
		t.Fatal(err)
	}
	if tok, _ := b.Get(ctx); tok != "" {
		t.Fatalf("session b sees %q, want empty", tok)
	}

	if got, _ := mr.Get(tokenstore.RedisKey("a")); got != "token-a" {
		t.Fatalf("raw key = %q, want token-a", got)
	}

	mr.FastForward(30 * time.Second)
	if err := a.Touch(ctx); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(45 * time.Second)
	if tok, _ := a.Get(ctx); tok != "token-a" {
		t.Fatalf("touched token expired early, got %q", tok)
	}

	mr.FastForward(2 * time.Minute)
	if tok, _ := a.Get(ctx); tok != "" {
		t.Fatalf("token should have expired, got %q", tok)
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := tokenstore.NewRedisClient(ctx, addr, ""); err == nil {
		t.Fatal("expected ping error")
	}
}
