package middleware

import (
    "context"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/ticket-shop/internal/config"
    "github.com/iliyamo/ticket-shop/internal/database"
    "github.com/iliyamo/ticket-shop/internal/logging"
)

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestRequestLogger_CorrelationID(t *testing.T) {
    e := echo.New()
    e.Use(RequestLogger())
    var seen string
    e.GET("/ping", func(c echo.Context) error {
        seen = logging.CorrelationID(c.Request().Context())
        return c.NoContent(http.StatusNoContent)
    })

    req := httptest.NewRequest(http.MethodGet, "/ping", nil)
    req.Header.Set(HeaderCorrelationID, "given-id")
    rec := serve(e, req)
    assert.Equal(t, "given-id", seen)
    assert.Equal(t, "given-id", rec.Header().Get(HeaderCorrelationID))

    rec = serve(e, httptest.NewRequest(http.MethodGet, "/ping", nil))
    assert.NotEmpty(t, seen)
    assert.NotEqual(t, "given-id", seen)
    assert.Equal(t, seen, rec.Header().Get(HeaderCorrelationID))
}

func TestRequestLogger_HandlesErrors(t *testing.T) {
    e := echo.New()
    e.Use(RequestLogger(), Metrics())
    e.GET("/boom", func(c echo.Context) error {
        return echo.NewHTTPError(http.StatusTeapot, "short and stout")
    })

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/boom", nil))
    assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestUnitOfWork(t *testing.T) {
    reg := database.NewRegistry()
    require.NoError(t, reg.AddPersistence(func(o *database.Options) { o.UseSQLite(":memory:") }))
    t.Cleanup(func() { _ = reg.Close() })

    e := echo.New()
    e.GET("/uow", func(c echo.Context) error {
        pc := Persistence(c)
        require.NotNil(t, pc)
        var one int
        require.NoError(t, pc.Conn().QueryRowxContext(c.Request().Context(), `SELECT 1`).Scan(&one))
        return c.JSON(http.StatusOK, one)
    }, UnitOfWork(reg))

    for i := 0; i < 3; i++ {
        // the single pooled connection must be released after each request
        rec := serve(e, httptest.NewRequest(http.MethodGet, "/uow", nil))
        assert.Equal(t, http.StatusOK, rec.Code)
    }
}

func TestUnitOfWork_Unconfigured(t *testing.T) {
    e := echo.New()
    e.GET("/uow", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, UnitOfWork(database.NewRegistry()))

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/uow", nil))
    assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPersistence_Missing(t *testing.T) {
    e := echo.New()
    c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
    assert.Nil(t, Persistence(c))
}

func TestResponseCache_Disabled(t *testing.T) {
    for _, rc := range []*ResponseCache{
        nil,
        NewResponseCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil),
        NewResponseCache(config.CacheConfig{Enabled: false}, nil),
    } {
        e := echo.New()
        calls := 0
        e.GET("/shows", func(c echo.Context) error {
            calls++
            return c.JSON(http.StatusOK, map[string]int{"calls": calls})
        }, rc.Middleware())

        for i := 0; i < 2; i++ {
            rec := serve(e, httptest.NewRequest(http.MethodGet, "/shows", nil))
            assert.Equal(t, http.StatusOK, rec.Code)
            assert.Empty(t, rec.Header().Get("X-Cache"))
        }
        assert.Equal(t, 2, calls)
        assert.NoError(t, rc.Invalidate(context.Background()))
    }
}

func TestResponseCache_Key(t *testing.T) {
    rc := NewResponseCache(config.CacheConfig{Prefix: "p"}, nil)
    e := echo.New()
    key := func(target string) string {
        return rc.key(e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder()), 3)
    }

    assert.Equal(t, key("/v1/shows?x=1"), key("/v1/shows?x=1"))
    assert.NotEqual(t, key("/v1/shows?x=1"), key("/v1/shows?x=2"))
    assert.NotEqual(t, key("/v1/shows/1"), key("/v1/shows/2"))
    assert.Regexp(t, `^p:3:[0-9a-f]{40}$`, key("/v1/shows"))
}

func TestCaptureWriter(t *testing.T) {
    rec := httptest.NewRecorder()
    cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

    _, _ = cw.Write([]byte("abc"))
    assert.False(t, cw.overflow)
    assert.Equal(t, "abc", cw.buf.String())

    _, _ = cw.Write([]byte("de"))
    assert.True(t, cw.overflow)
    assert.Equal(t, "abcde", rec.Body.String())
}
