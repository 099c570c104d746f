package report

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"KMA-backend/internal/attendance"
	"KMA-backend/internal/members"
	"KMA-backend/internal/payment"
	"KMA-backend/internal/platform/logger"
	"KMA-backend/internal/platform/metrics"
	"KMA-backend/internal/subcommittees"
)

type MemberCounter interface {
	Count(ctx context.Context, t *members.Type) (int64, error)
}

type ConvenerCounter interface {
	CountConveners(ctx context.Context) (int64, error)
}

type AttendanceCounter interface {
	CountByKind(ctx context.Context) (map[attendance.Kind]int64, error)
}

type Service struct {
	store      *Store
	catalog    *subcommittees.Catalog
	calc       payment.Calculator
	members    MemberCounter
	conveners  ConvenerCounter
	attendance AttendanceCounter
	log        *logrus.Logger
	metrics    *metrics.Metrics
}

type Option func(*Service)

func WithCatalog(c *subcommittees.Catalog) Option { return func(s *Service) { s.catalog = c } }
func WithCalculator(c payment.Calculator) Option  { return func(s *Service) { s.calc = c } }
func WithLogger(l *logrus.Logger) Option          { return func(s *Service) { s.log = l } }
func WithMetrics(m *metrics.Metrics) Option       { return func(s *Service) { s.metrics = m } }

// WithCounters: Totals 用。未設定なら Totals はゼロを返す
func WithCounters(m MemberCounter, c ConvenerCounter, a AttendanceCounter) Option {
	return func(s *Service) {
		s.members = m
		s.conveners = c
		s.attendance = a
	}
}

func NewService(conn *sql.DB, opts ...Option) *Service {
	s := &Service{
		store:   NewStore(conn),
		catalog: subcommittees.DefaultCatalog(),
		calc:    payment.Default(),
		log:     logger.Discard(),
		metrics: metrics.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Catalog() *subcommittees.Catalog { return s.catalog }

// Build: filter=nil なら全小委員会。台帳が空でも [] を返す
func (s *Service) Build(ctx context.Context, filter *attendance.Context) ([]Row, error) {
	var (
		tallies []tally
		err     error
	)
	kind := attendance.KindSubcommittee
	if filter != nil {
		kind = filter.Kind
	}
	switch {
	case filter == nil:
		tallies, err = s.store.Subcommittees(ctx, "")
	case kind == attendance.KindSubcommittee:
		tallies, err = s.store.Subcommittees(ctx, filter.SubcommitteeID)
	case kind == attendance.KindGeneral:
		tallies, err = s.store.General(ctx)
	case kind == attendance.KindExeco:
		tallies, err = s.store.Execo(ctx)
	}
	if err != nil {
		s.log.WithError(err).Error("build report")
		return nil, err
	}

	rows := make([]Row, 0, len(tallies))
	for _, t := range tallies {
		rows = append(rows, s.row(kind, t))
	}
	s.sortRows(rows)

	label := "all"
	if filter != nil {
		label = string(filter.Kind)
	}
	s.metrics.ReportsBuilt.WithLabelValues(label).Inc()
	return rows, nil
}

func (s *Service) row(kind attendance.Kind, t tally) Row {
	r := Row{
		MemberID:         t.MemberID,
		MemberName:       t.MemberName,
		MeetingsAttended: t.Count,
		IsConvener:       t.IsConvener,
	}
	var c attendance.Context
	switch kind {
	case attendance.KindGeneral:
		c = attendance.General()
		r.SubcommitteeName = LabelGeneral
	case attendance.KindExeco:
		c = attendance.Execo()
		r.SubcommitteeName = LabelExeco
	default:
		c = attendance.Subcommittee(t.SubcommitteeID)
		r.SubcommitteeID = t.SubcommitteeID
		r.SubcommitteeName = t.SubcommitteeID
		if sc, ok := s.catalog.Lookup(t.SubcommitteeID); ok {
			r.SubcommitteeName = sc.Name
		}
	}
	r.Context = c.String()
	r.Amount = s.calc.AmountFor(t.Count, c, t.IsConvener)
	return r
}

// sortRows: 小委員会の表示順 → 名前 → ID
func (s *Service) sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := s.catalog.Rank(rows[i].SubcommitteeID), s.catalog.Rank(rows[j].SubcommitteeID)
		if ri != rj {
			return ri < rj
		}
		ni, nj := strings.ToLower(rows[i].MemberName), strings.ToLower(rows[j].MemberName)
		if ni != nj {
			return ni < nj
		}
		return rows[i].MemberID < rows[j].MemberID
	})
}

// Totals: ダッシュボードのカード用
func (s *Service) Totals(ctx context.Context) (Totals, error) {
	out := Totals{Attendance: map[string]int64{
		string(attendance.KindSubcommittee): 0,
		string(attendance.KindGeneral):      0,
		string(attendance.KindExeco):        0,
	}}
	if s.members == nil || s.conveners == nil || s.attendance == nil {
		return out, nil
	}

	am, ga := members.TypeAssemblyMember, members.TypeGovernmentAppointee
	var err error
	if out.AssemblyMembers, err = s.members.Count(ctx, &am); err != nil {
		return Totals{}, err
	}
	if out.GovernmentAppointees, err = s.members.Count(ctx, &ga); err != nil {
		return Totals{}, err
	}
	if out.Conveners, err = s.conveners.CountConveners(ctx); err != nil {
		return Totals{}, err
	}
	byKind, err := s.attendance.CountByKind(ctx)
	if err != nil {
		return Totals{}, err
	}
	for k, n := range byKind {
		out.Attendance[string(k)] = n
	}
	return out, nil
}
