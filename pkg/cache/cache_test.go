package cache

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	mod := time.Unix(1700000000, 0)

	base := AvatarKeyOpts{Path: "/photos/a.jpg", Size: 1024, ModTime: mod, Width: 509, Height: 636}
	k1 := k.AvatarKey(base)
	if !strings.HasPrefix(k1, "avatar:") || len(k1) != len("avatar:")+64 {
		t.Errorf("AvatarKey unexpected: %s", k1)
	}
	if k.AvatarKey(base) != k1 {
		t.Error("AvatarKey should be deterministic")
	}

	changed := []AvatarKeyOpts{base, base, base, base}
	changed[0].ModTime = mod.Add(time.Second)
	changed[1].Width = 508
	changed[2].CornerRadius = 0.1
	changed[3].BorderColor = "#ffffff"
	for i, opts := range changed {
		if k.AvatarKey(opts) == k1 {
			t.Errorf("change %d should produce a different key", i)
		}
	}

	bk := k.BackgroundKey(BackgroundKeyOpts{Path: "/bg.jpg", Width: 4800, Height: 3200})
	if !strings.HasPrefix(bk, "background:") {
		t.Errorf("BackgroundKey unexpected: %s", bk)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "user:123:")

	opts := AvatarKeyOpts{Path: "a.jpg"}
	key := scoped.AvatarKey(opts)
	if key != "user:123:"+inner.AvatarKey(opts) {
		t.Errorf("ScopedKeyer AvatarKey unexpected: %s", key)
	}

	bk := scoped.BackgroundKey(BackgroundKeyOpts{})
	if len(bk) < 15 || bk[:9] != "user:123:" {
		t.Errorf("ScopedKeyer BackgroundKey should be prefixed: %s", bk)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.AvatarKey(AvatarKeyOpts{})
	if key != "prefix:"+NewDefaultKeyer().AvatarKey(AvatarKeyOpts{}) {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get missing = %v, %v", hit, err)
	}

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "value" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}

	matches, _ := filepath.Glob(filepath.Join(c.(*FileCache).Dir(), "*", "*.bin"))
	if len(matches) != 1 {
		t.Errorf("entry files = %v", matches)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("deleted entry should miss")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete missing = %v", err)
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	netErr := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	if err := classify(netErr); !IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("network error not retryable: %v", err)
	}
	if IsRetryable(classify(errors.New("WRONGTYPE"))) {
		t.Error("server error should not be retryable")
	}
}

// TestRedisCache runs against a live server when PORTRAITGRID_TEST_REDIS
// is set, e.g. redis://localhost:6379/15.
func TestRedisCache(t *testing.T) {
	url := os.Getenv("PORTRAITGRID_TEST_REDIS")
	if url == "" {
		t.Skip("PORTRAITGRID_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	key := "portraitgrid-test:" + t.Name()
	if err := c.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "value" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("deleted entry should miss")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if !IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("wrapped error = %v", err)
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("message = %q", err.Error())
	}
	if IsRetryable(ErrNetwork) {
		t.Error("unwrapped error should not be retryable")
	}
}

func TestBackoffRetry(t *testing.T) {
	ctx := context.Background()
	fast := Backoff{Attempts: 3, Delay: time.Millisecond}
	permanent := errors.New("permanent")

	tests := []struct {
		name      string
		failures  int   // calls that fail before success
		err       error // returned by failing calls
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"not retryable", 5, permanent, 1, permanent},
		{"retry then success", 2, Retryable(ErrNetwork), 3, nil},
		{"exhausted", 5, Retryable(ErrNetwork), 3, ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fast.Retry(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("err = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
