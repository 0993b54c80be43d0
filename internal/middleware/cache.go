package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/ticket-shop/internal/config"
    "github.com/iliyamo/ticket-shop/internal/logging"
)

// captureWriter copies the response body while forwarding it to the client.
// It stops copying once limit bytes were seen; overflow marks the body as
// too large to cache.
type captureWriter struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    limit    int
    overflow bool
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }
func (cw *captureWriter) Write(b []byte) (int, error) {
    if !cw.overflow {
        if cw.limit > 0 && cw.buf.Len()+len(b) > cw.limit {
            cw.overflow = true
            cw.buf.Reset()
        } else {
            cw.buf.Write(b)
        }
    }
    return cw.ResponseWriter.Write(b)
}

// cachedResponse is what gets stored in Redis for one request.
type cachedResponse struct {
    Status      int    `json:"status"`
    ContentType string `json:"content_type"`
    Body        []byte `json:"body"`
}

// ResponseCache caches successful read responses in Redis.  Entries are
// keyed by a generation counter stored under the prefix; Invalidate bumps
// it, so a response computed before a change is never served after it.
type ResponseCache struct {
    cfg config.CacheConfig
    rdb *redis.Client
}

// NewResponseCache returns a cache.  A nil client or a disabled config
// yields a cache whose middleware passes every request through.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) *ResponseCache {
    return &ResponseCache{cfg: cfg, rdb: rdb}
}

func (rc *ResponseCache) enabled() bool {
    return rc != nil && rc.cfg.Enabled && rc.rdb != nil
}

func (rc *ResponseCache) generationKey() string {
    return rc.cfg.Prefix + ":generation"
}

// generation returns the current cache generation; zero before the
// first invalidation.
func (rc *ResponseCache) generation(ctx context.Context) (int64, error) {
    gen, err := rc.rdb.Get(ctx, rc.generationKey()).Int64()
    if errors.Is(err, redis.Nil) {
        return 0, nil
    }
    return gen, err
}

// key builds a stable cache key from the generation, route and query string.
func (rc *ResponseCache) key(c echo.Context, gen int64) string {
    r := c.Request()
    tail := strings.Join([]string{"method", r.Method, "path", r.URL.Path, "q", r.URL.RawQuery}, ":")
    sum := sha1.Sum([]byte(tail))
    return fmt.Sprintf("%s:%d:%x", rc.cfg.Prefix, gen, sum[:])
}

// Middleware serves cache hits and stores 200 responses on a miss.  When
// Redis cannot be reached the request goes straight to the handler.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !rc.enabled() || !rc.cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }

            ctx := c.Request().Context()
            gen, err := rc.generation(ctx)
            if err != nil {
                logging.FromContext(ctx).WithError(err).Warn("cache generation lookup failed")
                return next(c)
            }
            key := rc.key(c, gen)

            if bs, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
                var hit cachedResponse
                if json.Unmarshal(bs, &hit) == nil {
                    c.Response().Header().Set("X-Cache", "HIT")
                    return c.Blob(hit.Status, hit.ContentType, hit.Body)
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: rc.cfg.MaxBodyBytes}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK || cw.overflow {
                return nil
            }
            payload, err := json.Marshal(cachedResponse{
                Status:      cw.status,
                ContentType: c.Response().Header().Get(echo.HeaderContentType),
                Body:        cw.buf.Bytes(),
            })
            if err != nil {
                return nil
            }
            if err := rc.rdb.Set(ctx, key, payload, rc.cfg.TTL).Err(); err != nil {
                logging.FromContext(ctx).WithError(err).Warn("cache store failed")
            }
            return nil
        }
    }
}

// Invalidate starts a new cache generation and deletes the entries of
// earlier ones.  Entries stored late under an old generation are never
// read again and expire with their TTL.
func (rc *ResponseCache) Invalidate(ctx context.Context) error {
    if !rc.enabled() {
        return nil
    }
    if err := rc.rdb.Incr(ctx, rc.generationKey()).Err(); err != nil {
        return errors.Wrap(err, "bump cache generation")
    }
    iter := rc.rdb.Scan(ctx, 0, rc.cfg.Prefix+":*", 200).Iterator()
    var keys []string
    for iter.Next(ctx) {
        if k := iter.Val(); k != rc.generationKey() {
            keys = append(keys, k)
        }
    }
    if err := iter.Err(); err != nil {
        return errors.Wrap(err, "scan cache keys")
    }
    if len(keys) == 0 {
        return nil
    }
    return errors.Wrap(rc.rdb.Del(ctx, keys...).Err(), "delete cache keys")
}
