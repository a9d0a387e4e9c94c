package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"

	// provisionalLockTTL bounds how long a crashed handler can block retries.
	provisionalLockTTL = 60 * time.Second
	maxClockSkew       = 10 * time.Minute
	storeTimeout       = 2 * time.Second
)

// idempEntry is the JSON document stored per key. InProgress entries hold
// the lock; final entries carry the response to replay.
type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// teeWriter copies the response body while passing it through.
type teeWriter struct {
	http.ResponseWriter
	body bytes.Buffer
	code int
}

func (w *teeWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *teeWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

type IdempotencyConfig struct {
	Store redis.Cmdable
	// TTL of a completed entry.
	TTL   time.Duration
	Scope ScopeFunc
	Log   *zap.Logger
}

// claim is one validated mutating request.
type claim struct {
	key      string
	reqID    string
	reqAt    time.Time
	bodyHash string
}

func (cl claim) entry(inProgress bool) idempEntry {
	return idempEntry{
		InProgress:  inProgress,
		BodySHA256:  cl.bodyHash,
		RequestID:   cl.reqID,
		RequestAtMS: cl.reqAt.UnixMilli(),
		CreatedAt:   nowUTC(),
	}
}

// Idempotency replays the stored response when a mutating request is retried
// with the same Ax-Request-Id in the same scope and route. Ax-Request-At must
// be epoch seconds or milliseconds, or RFC3339 with a zone, within maxClockSkew.
// Responses with a 5xx status are dropped so the client can retry.
func Idempotency(cfg IdempotencyConfig) echo.MiddlewareFunc {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			cl, msg, code := newClaim(c, cfg.Scope)
			if code != 0 {
				return c.JSON(code, map[string]string{"error": msg})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
			defer cancel()
			won, err := provisionalSet(ctx, cfg.Store, cl.key, cl.entry(true))
			if err != nil {
				cfg.Log.Warn("idempotency store unavailable", zap.String("key", cl.key), zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !won {
				return replay(ctx, c, cfg, cl)
			}

			w := &teeWriter{ResponseWriter: c.Response().Writer, code: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may already be gone; the key must still settle
			if w.code >= http.StatusInternalServerError {
				if err := release(context.Background(), cfg.Store, cl.key); err != nil {
					cfg.Log.Warn("idempotency release failed", zap.String("key", cl.key), zap.Error(err))
				}
				return nil
			}
			final := cl.entry(false)
			final.Code = w.code
			final.Body = w.body.Bytes()
			if err := saveFinal(context.Background(), cfg.Store, cl.key, final, cfg.TTL); err != nil {
				cfg.Log.Warn("idempotency save failed", zap.String("key", cl.key), zap.Error(err))
			}
			return nil
		}
	}
}

// newClaim validates the headers and buffers the body. A non-zero code
// means the request is refused with msg.
func newClaim(c echo.Context, scopeOf ScopeFunc) (claim, string, int) {
	req := c.Request()

	reqID := strings.TrimSpace(req.Header.Get(HeaderRequestID))
	if reqID == "" {
		return claim{}, "missing " + HeaderRequestID, http.StatusBadRequest
	}
	if !validReqID(reqID) {
		return claim{}, "invalid " + HeaderRequestID + " format", http.StatusBadRequest
	}
	reqID = strings.ToLower(reqID)

	reqAt, err := parseAxRequestAt(req.Header.Get(HeaderRequestAt))
	if err != nil {
		return claim{}, err.Error(), http.StatusBadRequest
	}
	if now := nowUTC(); reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
		return claim{}, HeaderRequestAt + " too skewed", http.StatusBadRequest
	}

	scope, ok := scopeOf(c)
	if !ok {
		return claim{}, "unknown caller", http.StatusUnauthorized
	}

	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	req.Body = io.NopCloser(bytes.NewReader(body))

	return claim{
		key:      buildKey(req.Method, c.Path(), scope, reqID),
		reqID:    reqID,
		reqAt:    reqAt,
		bodyHash: bodyHash(body),
	}, "", 0
}

// replay answers a request whose key is already taken.
func replay(ctx context.Context, c echo.Context, cfg IdempotencyConfig, cl claim) error {
	cur, err := loadEntry(ctx, cfg.Store, cl.key)
	if err != nil {
		cfg.Log.Warn("idempotency entry unreadable", zap.String("key", cl.key), zap.Error(err))
	}
	if cur.BodySHA256 != "" && cur.BodySHA256 != cl.bodyHash {
		return c.JSON(http.StatusConflict, map[string]string{"error": HeaderRequestID + " reused with different body"})
	}
	if !cur.InProgress && cur.Code != 0 && len(cur.Body) > 0 {
		cfg.Log.Debug("idempotency replay", zap.String("key", cl.key), zap.Int("code", cur.Code))
		return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
	}
	return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
}
