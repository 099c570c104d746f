package attendance

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"KMA-backend/internal/members"
	"KMA-backend/internal/platform/apierr"
	"KMA-backend/internal/platform/clock"
	"KMA-backend/internal/platform/db"
	"KMA-backend/internal/platform/idgen"
	"KMA-backend/internal/platform/lock"
	"KMA-backend/internal/platform/logger"
	"KMA-backend/internal/platform/metrics"
	"KMA-backend/internal/subcommittees"
)

// MemberLookup: members.Service が満たす
type MemberLookup interface {
	LookupByID(ctx context.Context, q db.DBTX, id string) (members.Member, error)
}

// Seats: subcommittees.Service が満たす。出席対象者の判定に使う
type Seats interface {
	Membership(ctx context.Context, q db.DBTX, subcommitteeID, memberID string) (subcommittees.Membership, error)
	ConvenerSeat(ctx context.Context, q db.DBTX, memberID string) (subcommittees.Membership, bool, error)
}

type Service struct {
	db      *sql.DB
	store   *Store
	members MemberLookup
	seats   Seats
	catalog *subcommittees.Catalog
	clock   clock.Clock
	id      idgen.IDGen
	log     *logrus.Logger
	metrics *metrics.Metrics
	locks   *lock.Keyed
}

type Option func(*Service)

func WithCatalog(c *subcommittees.Catalog) Option { return func(s *Service) { s.catalog = c } }
func WithClock(c clock.Clock) Option              { return func(s *Service) { s.clock = c } }
func WithIDGen(g idgen.IDGen) Option              { return func(s *Service) { s.id = g } }
func WithLogger(l *logrus.Logger) Option          { return func(s *Service) { s.log = l } }
func WithMetrics(m *metrics.Metrics) Option       { return func(s *Service) { s.metrics = m } }
func WithLocks(k *lock.Keyed) Option              { return func(s *Service) { s.locks = k } }

func NewService(conn *sql.DB, lookup MemberLookup, seats Seats, opts ...Option) *Service {
	s := &Service{
		db:      conn,
		store:   NewStore(conn),
		members: lookup,
		seats:   seats,
		catalog: subcommittees.DefaultCatalog(),
		clock:   clock.NewReal(nil),
		id:      idgen.NewULID(),
		log:     logger.Discard(),
		metrics: metrics.Nop(),
		locks:   lock.NewKeyed(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ParseContext: 表示順の設定と同じカタログで解決する
func (s *Service) ParseContext(v string) (Context, error) { return ParseContext(v, s.catalog) }

// POST /attendances
//
// 対象者: 小委員会はその所属者、execo は議長、総会は登録会員全員。
// 同じ (会員, コンテキスト, 日) の2回目は上書きせず DUPLICATE。
func (s *Service) Mark(ctx context.Context, c Context, memberID string, isConvenerMark bool) (Record, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return Record{}, apierr.Invalid("member_id is required")
	}

	unlock := s.locks.Lock(memberID)
	defer unlock()

	var out Record
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		if _, err := s.members.LookupByID(ctx, tx, memberID); err != nil {
			return err
		}
		mark, err := s.admit(ctx, tx, c, memberID, isConvenerMark)
		if err != nil {
			return err
		}

		st := NewStore(tx)
		today := s.clock.Today()
		exists, err := st.Exists(ctx, c, memberID, today)
		if err != nil {
			return err
		}
		if exists {
			return apierr.Duplicate("attendance already marked today")
		}

		id, err := s.id.New()
		if err != nil {
			return err
		}
		out = Record{
			AttendanceID:   id,
			MemberID:       memberID,
			Context:        c,
			AttendedOn:     today,
			IsConvenerMark: mark,
			ClockedAt:      s.clock.Now().UTC(),
		}
		if err := st.Insert(ctx, out); err != nil {
			if db.IsUniqueViolation(err) {
				return apierr.Duplicate("attendance already marked today")
			}
			return err
		}
		out.MeetingsAttended, err = st.CountForMember(ctx, c, memberID)
		return err
	})
	if err != nil {
		return Record{}, s.reject(err, c, memberID)
	}

	s.metrics.AttendanceMarked.WithLabelValues(string(c.Kind)).Inc()
	s.log.WithFields(logrus.Fields{
		"member_id": memberID,
		"context":   c.String(),
		"on":        out.AttendedOn,
	}).Info("attendance marked")
	return out, nil
}

// admit: 対象者チェック。返り値は記録する is_convener_mark
func (s *Service) admit(ctx context.Context, tx db.DBTX, c Context, memberID string, isConvenerMark bool) (bool, error) {
	switch c.Kind {
	case KindSubcommittee:
		ms, err := s.seats.Membership(ctx, tx, c.SubcommitteeID, memberID)
		if err != nil {
			return false, err
		}
		if isConvenerMark && !ms.IsConvener {
			return false, apierr.Conflict("member is not the convener of this subcommittee")
		}
		return isConvenerMark, nil
	case KindExeco:
		_, ok, err := s.seats.ConvenerSeat(ctx, tx, memberID)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, apierr.Conflict("execo attendance is for conveners only")
		}
		return true, nil
	case KindGeneral:
		if isConvenerMark {
			return false, apierr.Conflict("convener marks apply to subcommittee meetings only")
		}
		return false, nil
	}
	return false, apierr.Invalid("unknown context")
}

// POST /attendances/batch
// 会員ごとに独立して記録する。ルール違反は failures に、想定外のエラーはまとめて返す。
func (s *Service) MarkBatch(ctx context.Context, c Context, memberIDs []string, isConvenerMark bool) (BatchResult, error) {
	if len(memberIDs) == 0 {
		return BatchResult{}, apierr.Invalid("member_ids is required")
	}
	res := BatchResult{Marked: []Record{}, Failures: []Failure{}}
	var errs *multierror.Error
	for _, id := range memberIDs {
		r, err := s.Mark(ctx, c, id, isConvenerMark)
		if err == nil {
			res.Marked = append(res.Marked, r)
			continue
		}
		var api *apierr.Error
		if !errors.As(err, &api) || api.Code == apierr.CodeInternal {
			errs = multierror.Append(errs, err)
			res.Failures = append(res.Failures, Failure{MemberID: id, Code: string(apierr.CodeInternal), Message: "internal error"})
			continue
		}
		res.Failures = append(res.Failures, Failure{MemberID: id, Code: string(api.Code), Message: api.Message})
	}
	return res, errs.ErrorOrNil()
}

// GET /attendances/today
func (s *Service) IsMarkedToday(ctx context.Context, c Context, memberID string) (bool, error) {
	if strings.TrimSpace(memberID) == "" {
		return false, apierr.Invalid("member_id is required")
	}
	return s.store.Exists(ctx, c, memberID, s.clock.Today())
}

// DELETE /attendances?context=
// 確認（confirm=true）は HTTP 側の責務
func (s *Service) DeleteAll(ctx context.Context, c Context) (int64, error) {
	n, err := s.store.DeleteAll(ctx, c)
	if err != nil {
		s.log.WithError(err).WithField("context", c.String()).Error("clear attendance")
		return 0, err
	}
	s.metrics.AttendanceCleared.WithLabelValues(string(c.Kind)).Add(float64(n))
	s.log.WithFields(logrus.Fields{"context": c.String(), "count": n}).Warn("attendance cleared")
	return n, nil
}

// MeetingsAttended: 台帳の行数（保存済みカウンタは持たない）
func (s *Service) MeetingsAttended(ctx context.Context, c Context, memberID string) (int64, error) {
	return s.store.CountForMember(ctx, c, memberID)
}

// GET /attendances
func (s *Service) List(ctx context.Context, q ListQuery) ([]Record, int64, error) {
	if q.Sort == "" {
		q.Sort = DefaultSort
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	on, err := s.parseDate(q.On, "on")
	if err != nil {
		return nil, 0, err
	}
	from, err := s.parseDate(q.From, "from")
	if err != nil {
		return nil, 0, err
	}
	to, err := s.parseDate(q.To, "to")
	if err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, q, on, from, to)
}

// GET /attendances/stats
func (s *Service) Stats(ctx context.Context, req StatsRequest) ([]StatsRow, error) {
	from, err := time.Parse(db.DateLayout, req.From)
	if err != nil {
		return nil, apierr.Invalid("from must be YYYY-MM-DD")
	}
	to, err := time.Parse(db.DateLayout, req.To)
	if err != nil {
		return nil, apierr.Invalid("to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, apierr.Invalid("to must be >= from")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultStatsLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return s.store.Stats(ctx, req.Context, req.From, req.To, limit)
}

func (s *Service) CountByKind(ctx context.Context) (map[Kind]int64, error) {
	return s.store.CountByKind(ctx)
}

// parseDate: "today" はサーバの時計で解決する
func (s *Service) parseDate(v *string, field string) (string, error) {
	if v == nil {
		return "", nil
	}
	d := strings.ToLower(strings.TrimSpace(*v))
	if d == "" {
		return "", nil
	}
	if d == "today" {
		return s.clock.Today(), nil
	}
	if _, err := time.Parse(db.DateLayout, d); err != nil {
		return "", apierr.Invalid(field + " must be YYYY-MM-DD or 'today'")
	}
	return d, nil
}

func (s *Service) reject(err error, c Context, memberID string) error {
	fields := logrus.Fields{"member_id": memberID, "context": c.String()}
	var reason string
	switch apierr.CodeOf(err) {
	case apierr.CodeDuplicate:
		reason = "duplicate"
	case apierr.CodeNotFound:
		reason = "not_found"
	case apierr.CodeConflict:
		reason = "not_eligible"
	case apierr.CodeInvalidArgument:
		reason = "invalid"
	default:
		s.log.WithError(err).WithFields(fields).Error("mark attendance")
		return err
	}
	s.metrics.AttendanceRejected.WithLabelValues(reason).Inc()
	s.log.WithFields(fields).WithField("reason", reason).Warn("attendance rejected")
	return err
}
