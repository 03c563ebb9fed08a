// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// middleware.AuthRecorderを満たし、認証・認可ゲートの判定結果も記録する。
type Collector struct {
	authResults     *prometheus.CounterVec
	tokensIssued    prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursebooking_auth_total",
			Help: "認証・認可ゲートの判定結果別の件数",
		}, []string{"result"}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coursebooking_tokens_issued_total",
			Help: "ログインで発行したアクセストークンの合計数",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coursebooking_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		c.authResults,
		c.tokensIssued,
		c.requestDuration,
	)

	return c
}

// RecordAuthResult はゲートの判定結果を記録する。
func (c *Collector) RecordAuthResult(result string) {
	c.authResults.WithLabelValues(result).Inc()
}

// RecordTokenIssued はアクセストークンの発行を記録する。
func (c *Collector) RecordTokenIssued() {
	c.tokensIssued.Inc()
}

// RecordRequest はHTTPリクエストの処理時間を記録する。
func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// Middleware はリクエストの処理時間を記録するGinミドルウェアを返す。
// ルートはパスパラメータを展開しないテンプレート（例: /courses/:courseId）で記録する。
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.RecordRequest(ctx.Request.Method, route, ctx.Writer.Status(), time.Since(start))
	}
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
