package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-dashboard/internal/core/auth"
	resp "user-dashboard/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(t *testing.T, r *gin.Engine, path string) resp.Resp {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var out resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func ok(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(nil)) }

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(0, 2), ok)

	assert.Equal(t, resp.CodeOK, serve(t, r, "/").Code)
	assert.Equal(t, resp.CodeOK, serve(t, r, "/").Code)
	assert.Equal(t, resp.CodeTooManyRequests, serve(t, r, "/").Code)
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimitPerIP(0, 1, time.Minute), ok)

	assert.Equal(t, resp.CodeOK, serve(t, r, "/").Code)
	assert.Equal(t, resp.CodeTooManyRequests, serve(t, r, "/").Code)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.GET("/slow", Timeout(10*time.Millisecond), func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", Timeout(time.Second), ok)

	assert.Equal(t, resp.CodeTimeout, serve(t, r, "/slow").Code)
	assert.Equal(t, resp.CodeOK, serve(t, r, "/fast").Code)
}

func TestSimpleRecovery(t *testing.T) {
	r := gin.New()
	r.GET("/", SimpleRecovery(zap.NewNop()), func(*gin.Context) { panic("boom") })

	out := serve(t, r, "/")
	assert.Equal(t, resp.CodeServerError, out.Code)
}

func TestConcurrencyLimit(t *testing.T) {
	r := gin.New()
	r.GET("/", ConcurrencyLimit(1, time.Second), ok)
	assert.Equal(t, resp.CodeOK, serve(t, r, "/").Code)
}

func TestMetricsUsesEnvelopeCode(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/nf", func(c *gin.Context) {
		ResponseCode(c, resp.CodeNotFound)
		c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, ""))
	})

	before := testutil.ToFloat64(httpReqTotal.WithLabelValues("/nf", http.MethodGet, "404"))
	out := serve(t, r, "/nf")
	assert.Equal(t, resp.CodeNotFound, out.Code)
	assert.Equal(t, "Not Found", out.Msg)
	assert.Equal(t, before+1, testutil.ToFloat64(httpReqTotal.WithLabelValues("/nf", http.MethodGet, "404")))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/", RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDOf(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(KeyRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "upstream-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-1", w.Header().Get(KeyRequestID))
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.POST("/", MaxBodyBytes(8), func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		ok(c)
	})

	post := func(body io.Reader) resp.Resp {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", body))
		var out resp.Resp
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	assert.Equal(t, resp.CodeOK, post(strings.NewReader("small")).Code)
	assert.Equal(t, resp.CodeBadRequest, post(strings.NewReader("definitely too large")).Code)
	// 未声明长度的流在读取时被截断
	assert.Equal(t, resp.CodeBadRequest, post(io.MultiReader(strings.NewReader("definitely "), strings.NewReader("too large"))).Code)
}

func TestAuthJWT(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("k"), Issuer: "user-dashboard", TTL: time.Hour}
	admin, err := j.Issue("operator", auth.RoleAdmin)
	require.NoError(t, err)
	viewer, err := j.Issue("someone", "viewer")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/", AuthJWT(j, auth.RoleAdmin), func(c *gin.Context) {
		assert.Equal(t, "operator", c.GetString(KeyUserID))
		assert.Equal(t, auth.RoleAdmin, c.GetString(KeyRole))
		ok(c)
	})

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantMsg  string
	}{
		{name: "admin", header: "Bearer " + admin, wantCode: resp.CodeOK},
		{name: "missing", header: "", wantCode: resp.CodeUnauthorized, wantMsg: "missing token"},
		{name: "garbage", header: "Bearer nope", wantCode: resp.CodeUnauthorized, wantMsg: "invalid token"},
		{name: "wrong role", header: "Bearer " + viewer, wantCode: resp.CodeForbidden, wantMsg: "forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			var out resp.Resp
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
			assert.Equal(t, tt.wantCode, out.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, out.Msg)
			}
		})
	}
}
