package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	resp "user-dashboard/internal/transport/http/response"
)

const metricsNamespace = "dashboard"

var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: metricsNamespace, Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"path", "method", "code"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"},
	)
	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: metricsNamespace, Name: "http_requests_in_flight", Help: "Requests being served"},
	)
)

func init() { prometheus.MustRegister(httpReqTotal, httpLatency, httpInFlight) }

// Metrics 业务码取自响应信封（HTTP 状态恒为 200），见 ResponseCode
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		code := c.GetInt(KeyResponseCode)
		if code == 0 && c.Writer.Status() != 200 {
			code = c.Writer.Status()
		}
		httpReqTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(code)).Inc()
		httpLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

const KeyResponseCode = "resp_code"

// ResponseCode 由 handler 写入信封业务码，供 Metrics 打标签
func ResponseCode(c *gin.Context, code int) { c.Set(KeyResponseCode, code) }

// abort 中断并返回信封（HTTP 200），同时记下业务码
func abort(c *gin.Context, code int, msg string) {
	ResponseCode(c, code)
	c.AbortWithStatusJSON(http.StatusOK, resp.Error(code, msg))
}
