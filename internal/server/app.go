package server

import (
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"KMA-backend/internal/attendance"
	"KMA-backend/internal/meetings"
	"KMA-backend/internal/members"
	"KMA-backend/internal/payment"
	"KMA-backend/internal/platform/clock"
	"KMA-backend/internal/platform/config"
	"KMA-backend/internal/platform/lock"
	"KMA-backend/internal/platform/metrics"
	"KMA-backend/internal/report"
	"KMA-backend/internal/subcommittees"
)

// App: 設定から組み立てたサービス一式
type App struct {
	Config        *config.Config
	DB            *sql.DB
	Log           *logrus.Logger
	Registry      *prometheus.Registry
	Metrics       *metrics.Metrics
	Members       *members.Service
	Subcommittees *subcommittees.Service
	Attendance    *attendance.Service
	Reports       *report.Service
	Meetings      *meetings.Service
}

// NewApp: clk が nil なら設定のタイムゾーンで実時計を使う
func NewApp(cfg *config.Config, conn *sql.DB, log *logrus.Logger, clk clock.Clock) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.NewReal(loc)
	}
	catalog, err := subcommittees.NewCatalog(cfg.Rules.SubcommitteeOrder)
	if err != nil {
		return nil, fmt.Errorf("rules.subcommittee_order: %w", err)
	}
	calc, err := payment.New(cfg.Payment.RatePerMeeting, cfg.Payment.ConvenerBonus, cfg.Payment.ContextRates)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	m := metrics.New(reg)

	// 会員単位のロックは全サービスで共有する
	locks := lock.NewKeyed()

	ms := members.NewService(conn,
		members.WithClock(clk),
		members.WithLogger(log),
		members.WithMetrics(m),
		members.WithLocks(locks),
		members.WithContactMinLength(cfg.Rules.ContactMinLength),
	)
	subs := subcommittees.NewService(conn, ms,
		subcommittees.WithCatalog(catalog),
		subcommittees.WithClock(clk),
		subcommittees.WithLogger(log),
		subcommittees.WithMetrics(m),
		subcommittees.WithLocks(locks),
		subcommittees.WithMaxSubcommittees(cfg.Rules.MaxSubcommittees),
	)
	att := attendance.NewService(conn, ms, subs,
		attendance.WithCatalog(catalog),
		attendance.WithClock(clk),
		attendance.WithLogger(log),
		attendance.WithMetrics(m),
		attendance.WithLocks(locks),
	)
	rep := report.NewService(conn,
		report.WithCatalog(catalog),
		report.WithCalculator(calc),
		report.WithLogger(log),
		report.WithMetrics(m),
		report.WithCounters(ms, subs, att),
	)
	mt := meetings.NewService(conn,
		meetings.WithClock(clk),
		meetings.WithLogger(log),
	)

	return &App{
		Config:        cfg,
		DB:            conn,
		Log:           log,
		Registry:      reg,
		Metrics:       m,
		Members:       ms,
		Subcommittees: subs,
		Attendance:    att,
		Reports:       rep,
		Meetings:      mt,
	}, nil
}
