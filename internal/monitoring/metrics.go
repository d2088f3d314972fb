package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 监控指标
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// 业务指标
	SubmissionsTotal *prometheus.CounterVec // 按类型和结果统计的提交数
	ResumeSize       prometheus.Histogram   // 落盘简历大小分布
	NotifyFailures   prometheus.Counter     // 通知邮件发送失败数
}

// NewMetrics 创建监控指标并注册到给定的 Registerer。
// 测试中传入独立的 prometheus.NewRegistry() 避免重复注册。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intake_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		SubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_submissions_total",
				Help: "Total number of form submissions by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),

		ResumeSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "intake_resume_size_bytes",
				Help:    "Size distribution of stored resumes",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 7), // 1KiB .. 4MiB，覆盖 5MiB 上限
			},
		),

		NotifyFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "intake_notification_failures_total",
				Help: "Total number of failed notification emails",
			},
		),
	}
}

// RecordHTTPRequest 记录一次 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSubmission 记录一次提交结果
func (m *Metrics) RecordSubmission(kind, outcome string) {
	m.SubmissionsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordResumeSize 记录一次简历落盘大小
func (m *Metrics) RecordResumeSize(size int64) {
	m.ResumeSize.Observe(float64(size))
}

// RecordNotifyFailure 记录一次通知发送失败
func (m *Metrics) RecordNotifyFailure() {
	m.NotifyFailures.Inc()
}

// HTTPHandler 返回 Prometheus 抓取端点的处理器
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.Handler()
}
