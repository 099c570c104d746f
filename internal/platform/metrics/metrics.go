package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kma"

type Metrics struct {
	MembersRegistered  prometheus.Counter
	MembershipRejected *prometheus.CounterVec
	AttendanceMarked   *prometheus.CounterVec
	AttendanceRejected *prometheus.CounterVec
	AttendanceCleared  *prometheus.CounterVec
	ReportsBuilt       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		MembersRegistered: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "members_registered_total",
			Help:      "Members registered",
		}),
		MembershipRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memberships_rejected_total",
			Help:      "Subcommittee membership requests rejected by rule",
		}, []string{"reason"}),
		AttendanceMarked: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attendance_marked_total",
			Help:      "Attendance records written",
		}, []string{"context_kind"}),
		AttendanceRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attendance_rejected_total",
			Help:      "Attendance marks rejected by rule",
		}, []string{"reason"}),
		AttendanceCleared: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attendance_cleared_records_total",
			Help:      "Attendance records removed by bulk clear",
		}, []string{"context_kind"}),
		ReportsBuilt: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_built_total",
			Help:      "Attendance reports generated",
		}, []string{"context_kind"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Nop: 登録先を持たないメトリクス（テスト・CLI用）
func Nop() *Metrics { return New(prometheus.NewRegistry()) }

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
