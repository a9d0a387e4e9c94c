package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func Test_bodyHash(t *testing.T) {
	data := []byte("hello world")
	sum := sha256.Sum256(data)
	if got, want := bodyHash(data), hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("bodyHash mismatch: got %s want %s", got, want)
	}
}

func Test_buildKey(t *testing.T) {
	k := buildKey("POST", "/api/farmers/loans/:id/pay", "farmer-1", strings.Repeat("a", 32))
	want := "idemp:ax:post:/api/farmers/loans/:id/pay:farmer-1:" + strings.Repeat("a", 32)
	if k != want {
		t.Fatalf("buildKey = %q, want %q", k, want)
	}
}

func Test_validReqID(t *testing.T) {
	t.Run("accepts uuid and 32-hex", func(t *testing.T) {
		for _, s := range []string{
			"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88",
			"3F9A6A1B-3D54-4FBE-8B3A-6B3E8D6B2C88", // case-insensitive uuid
			strings.Repeat("a", 32),
			"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88",
		} {
			if !validReqID(s) {
				t.Fatalf("validReqID should accept %q", s)
			}
		}
	})

	t.Run("rejects bad formats", func(t *testing.T) {
		for _, s := range []string{
			"",
			strings.Repeat("A", 32),                // uppercase bare hex
			"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",      // 31 chars
			"3f9a6a1b3d544fbe8b3a6b3e8d6b2c880",    // 33 chars
			strings.Repeat("z", 32),                // non-hex
			"3f9a6a1b-3d54-9fbe-8b3a-6b3e8d6b2c88", // version 9
			"urn:uuid:3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88",
		} {
			if validReqID(s) {
				t.Fatalf("validReqID should reject %q", s)
			}
		}
	})
}

func Test_parseAxRequestAt(t *testing.T) {
	sec := time.Now().UTC().Unix()
	ms := time.Now().UTC().UnixMilli()

	tests := []struct {
		raw  string
		want time.Time
	}{
		{strconv.FormatInt(sec, 10), time.Unix(sec, 0).UTC()},
		{strconv.FormatInt(ms, 10), time.UnixMilli(ms).UTC()},
		// 10:00 +07:00 == 03:00 UTC
		{"2025-09-05T10:00:00+07:00", time.Date(2025, 9, 5, 3, 0, 0, 0, time.UTC)},
		{"2025-09-05T03:00:00Z", time.Date(2025, 9, 5, 3, 0, 0, 0, time.UTC)},
		{"2025-09-05T03:00:00.5Z", time.Date(2025, 9, 5, 3, 0, 0, 5e8, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseAxRequestAt(tt.raw)
		if err != nil {
			t.Fatalf("parseAxRequestAt(%q): %v", tt.raw, err)
		}
		if !got.Equal(tt.want) || got.Location() != time.UTC {
			t.Fatalf("parseAxRequestAt(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}

	for _, raw := range []string{"", "not-a-time", "2025-09-05T10:00:00", "1736123456abc"} {
		if _, err := parseAxRequestAt(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func Test_provisionalSet_LoadEntry(t *testing.T) {
	_, rdb := newMiniRedis(t)
	ctx := context.Background()

	key := buildKey("POST", "/api/farmers/loans", "farmer-1", strings.Repeat("a", 32))
	entry := idempEntry{
		InProgress:  true,
		BodySHA256:  bodyHash([]byte(`{"a":1}`)),
		RequestID:   strings.Repeat("a", 32),
		RequestAtMS: time.Now().UnixMilli(),
		CreatedAt:   nowUTC(),
	}

	ok, err := provisionalSet(ctx, rdb, key, entry)
	if err != nil || !ok {
		t.Fatalf("provisionalSet 1: ok=%v err=%v", ok, err)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > provisionalLockTTL {
		t.Fatalf("provisional TTL not set correctly: %v", ttl)
	}

	ok, err = provisionalSet(ctx, rdb, key, entry)
	if err != nil || ok {
		t.Fatalf("provisionalSet 2 should report existing key: ok=%v err=%v", ok, err)
	}

	got, err := loadEntry(ctx, rdb, key)
	if err != nil {
		t.Fatalf("loadEntry err: %v", err)
	}
	if !got.InProgress || got.RequestID != entry.RequestID || got.BodySHA256 != entry.BodySHA256 {
		t.Fatalf("loaded entry mismatch: %+v vs %+v", got, entry)
	}

	if err := release(ctx, rdb, key); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := loadEntry(ctx, rdb, key); err == nil {
		t.Fatalf("entry should be gone after release")
	}
}

func Test_saveFinal_Load_TTL(t *testing.T) {
	_, rdb := newMiniRedis(t)
	ctx := context.Background()

	key := buildKey("POST", "/api/farmers/loans", "farmer-1", strings.Repeat("a", 32))
	final := idempEntry{Code: 201, Body: []byte(`{"ok":true}`), BodySHA256: bodyHash([]byte(`{}`))}

	ttlWant := 5 * time.Second
	if err := saveFinal(ctx, rdb, key, final, ttlWant); err != nil {
		t.Fatalf("saveFinal err: %v", err)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > ttlWant {
		t.Fatalf("final TTL out of range: got %v want <= %v", ttl, ttlWant)
	}
	got, err := loadEntry(ctx, rdb, key)
	if err != nil {
		t.Fatalf("load after final err: %v", err)
	}
	if got.Code != 201 || string(got.Body) != `{"ok":true}` || got.InProgress {
		t.Fatalf("final entry mismatch: %+v", got)
	}
}
