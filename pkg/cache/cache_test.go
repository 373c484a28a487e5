package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// exerciseCache runs the behaviour every backend shares.
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "absent"); err != nil || hit {
		t.Fatalf("Get(absent) = hit %v, err %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "k1", []byte("v1"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set(ctx, "k2", []byte("v2"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k1")
	if err != nil || !hit || string(data) != "v1" {
		t.Fatalf("Get(k1) = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "k1", []byte("v1b"), time.Hour); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if data, _, _ := c.Get(ctx, "k1"); string(data) != "v1b" {
		t.Errorf("overwrite not visible: %q", data)
	}

	if err := c.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k1"); hit {
		t.Error("deleted key still present")
	}
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 1 {
		t.Errorf("Clear removed %d entries, want 1", n)
	}
	if _, hit, _ := c.Get(ctx, "k2"); hit {
		t.Error("entry survived Clear")
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, hit, err := c.Get(ctx, "short"); err != nil || hit {
		t.Errorf("expired entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry file should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "bad"); err != nil || hit {
		t.Errorf("corrupt entry: hit %v, err %v; want miss", hit, err)
	}
}

func TestFileCacheClearMissingDir(t *testing.T) {
	c := &FileCache{dir: filepath.Join(t.TempDir(), "never-created")}
	if n, err := c.Clear(context.Background()); err != nil || n != 0 {
		t.Errorf("Clear = %d, %v; want 0, nil", n, err)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("FLOORSTACK_TEST_REDIS")
	if addr == "" {
		t.Skip("FLOORSTACK_TEST_REDIS not set")
	}
	c, err := NewRedisCache(context.Background(), RedisConfig{Addr: addr, DB: 15})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	if _, err := c.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	exerciseCache(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("FLOORSTACK_TEST_MONGO")
	if uri == "" {
		t.Skip("FLOORSTACK_TEST_MONGO not set")
	}
	c, err := NewMongoCache(context.Background(), MongoConfig{URI: uri, Database: "floorstack_test"})
	if err != nil {
		t.Fatalf("NewMongoCache: %v", err)
	}
	defer c.Close()
	if _, err := c.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	exerciseCache(t, c)
}

func TestBackendConfigErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := NewRedisCache(ctx, RedisConfig{}); err == nil {
		t.Error("NewRedisCache without address should fail")
	}
	if _, err := NewMongoCache(ctx, MongoConfig{URI: "mongodb://localhost"}); err == nil {
		t.Error("NewMongoCache without database should fail")
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("NullCache.Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if n, err := c.Clear(ctx); n != 0 || err != nil {
		t.Errorf("Clear = %d, %v", n, err)
	}
}

type recordingCache struct {
	NullCache
	ttls []time.Duration
}

func (c *recordingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.ttls = append(c.ttls, ttl)
	return nil
}

func TestWithMaxTTL(t *testing.T) {
	ctx := context.Background()
	rec := &recordingCache{}
	c := WithMaxTTL(rec, time.Hour)

	for _, ttl := range []time.Duration{time.Minute, 0, 48 * time.Hour} {
		if err := c.Set(ctx, "k", nil, ttl); err != nil {
			t.Fatal(err)
		}
	}
	want := []time.Duration{time.Minute, time.Hour, time.Hour}
	for i := range want {
		if rec.ttls[i] != want[i] {
			t.Errorf("ttl[%d] = %v, want %v", i, rec.ttls[i], want[i])
		}
	}

	if WithMaxTTL(rec, 0) != Cache(rec) {
		t.Error("zero max should return the cache unchanged")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if sk := k.SurveyKey("abc", "roomscan"); !strings.HasPrefix(sk, "survey:") {
		t.Errorf("SurveyKey unexpected: %s", sk)
	}
	if k.SurveyKey("abc", "roomscan") == k.SurveyKey("abc", "json") {
		t.Error("input format should be part of the survey key")
	}

	rk1 := k.ResolveKey("hash123", ResolveKeyOpts{UnknownFixtures: "ignore"})
	rk2 := k.ResolveKey("hash123", ResolveKeyOpts{UnknownFixtures: "gap"})
	rk3 := k.ResolveKey("hash123", ResolveKeyOpts{UnknownFixtures: "ignore", Strict: true})
	if rk1 == rk2 || rk1 == rk3 {
		t.Error("Different ResolveKeyOpts should produce different keys")
	}
	if rk1 != k.ResolveKey("hash123", ResolveKeyOpts{UnknownFixtures: "ignore"}) {
		t.Error("ResolveKey should be deterministic")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "dot"})
	ak3 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Detailed: true})
	if ak1 == ak2 || ak1 == ak3 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "tenant:1:")
	for _, key := range []string{
		scoped.SurveyKey("h", "json"),
		scoped.ResolveKey("h", ResolveKeyOpts{}),
		scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}),
	} {
		if !strings.HasPrefix(key, "tenant:1:") {
			t.Errorf("key not prefixed: %s", key)
		}
	}

	nilInner := NewScopedKeyer(nil, "p:")
	if got, want := nilInner.SurveyKey("h", "json"), "p:"+NewDefaultKeyer().SurveyKey("h", "json"); got != want {
		t.Errorf("nil inner: got %s, want %s", got, want)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should unwrap to the cause")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err %v, calls %d", err, calls)
	}

	calls = 0
	plain := errors.New("bad request")
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return plain
	})
	if err != plain || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrUnavailable)
	})
	if !errors.Is(err, ErrUnavailable) || calls != 3 {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
