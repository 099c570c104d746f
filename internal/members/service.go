package members

import (
	"context"
	"database/sql"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"KMA-backend/internal/platform/apierr"
	"KMA-backend/internal/platform/clock"
	"KMA-backend/internal/platform/db"
	"KMA-backend/internal/platform/idgen"
	"KMA-backend/internal/platform/lock"
	"KMA-backend/internal/platform/logger"
	"KMA-backend/internal/platform/metrics"
)

type Service struct {
	db         *sql.DB
	store      *Store
	clock      clock.Clock
	id         idgen.IDGen
	log        *logrus.Logger
	metrics    *metrics.Metrics
	locks      *lock.Keyed
	contactMin int
}

type Option func(*Service)

func WithClock(c clock.Clock) Option        { return func(s *Service) { s.clock = c } }
func WithIDGen(g idgen.IDGen) Option        { return func(s *Service) { s.id = g } }
func WithLogger(l *logrus.Logger) Option    { return func(s *Service) { s.log = l } }
func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }
func WithLocks(k *lock.Keyed) Option        { return func(s *Service) { s.locks = k } }
func WithContactMinLength(n int) Option     { return func(s *Service) { s.contactMin = n } }

func NewService(conn *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:         conn,
		store:      NewStore(conn),
		clock:      clock.NewReal(nil),
		id:         idgen.NewULID(),
		log:        logger.Discard(),
		metrics:    metrics.Nop(),
		locks:      lock.NewKeyed(),
		contactMin: DefaultContactMinLength,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// POST /members
func (s *Service) Register(ctx context.Context, in RegisterRequest) (Member, error) {
	t, ok := ParseType(in.MemberType)
	if !ok {
		return Member{}, apierr.Invalid("member_type must be AssemblyMember or GovernmentAppointee")
	}
	m := Member{MemberType: t, IsConvener: in.IsConvener}
	if err := s.apply(&m, UpdateRequest{
		Name:          &in.Name,
		ElectoralArea: &in.ElectoralArea,
		Contact:       &in.Contact,
		Gender:        &in.Gender,
	}); err != nil {
		return Member{}, err
	}

	id, err := s.id.New()
	if err != nil {
		return Member{}, err
	}
	now := s.clock.Now()
	m.MemberID = id
	m.CreatedAt = now.UTC()
	m.UpdatedAt = now.UTC()

	if err := s.store.Insert(ctx, m); err != nil {
		s.log.WithError(err).Error("insert member")
		return Member{}, err
	}
	s.metrics.MembersRegistered.Inc()
	s.log.WithFields(logrus.Fields{"member_id": m.MemberID, "member_type": m.MemberType}).Info("member registered")
	return m, nil
}

// GET /members/search?query=
// 空クエリは全件ではなく空を返す
func (s *Service) Search(ctx context.Context, query string) ([]Member, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []Member{}, nil
	}
	return s.store.Search(ctx, q, searchLimit)
}

// GET /members/:member_type/:member_id
func (s *Service) Get(ctx context.Context, id string, t Type) (Member, error) {
	return s.Lookup(ctx, s.db, id, t)
}

// Lookup: 他ドメインの Tx 内からも使う
func (s *Service) Lookup(ctx context.Context, q db.DBTX, id string, t Type) (Member, error) {
	m, err := NewStore(q).Get(ctx, id, t)
	if isNoRows(err) {
		return Member{}, apierr.NotFound("member not found")
	}
	return m, err
}

func (s *Service) LookupByID(ctx context.Context, q db.DBTX, id string) (Member, error) {
	m, err := NewStore(q).GetByID(ctx, id)
	if isNoRows(err) {
		return Member{}, apierr.NotFound("member not found")
	}
	return m, err
}

// PUT /members/:member_type/:member_id
func (s *Service) Update(ctx context.Context, id string, t Type, patch UpdateRequest) (Member, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var out Member
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		m, err := s.Lookup(ctx, tx, id, t)
		if err != nil {
			return err
		}
		if err := s.apply(&m, patch); err != nil {
			return err
		}
		m.UpdatedAt = s.clock.Now().UTC()
		if err := NewStore(tx).Update(ctx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	return out, err
}

// DELETE /members/:member_type/:member_id
// 二回目の削除は NOT_FOUND（冪等にはしない）
func (s *Service) Delete(ctx context.Context, id string, t Type) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		return NewStore(tx).Delete(ctx, id, t)
	})
	if isNoRows(err) {
		return apierr.NotFound("member not found")
	}
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"member_id": id, "member_type": t}).Info("member deleted")
	return nil
}

// GET /members
func (s *Service) List(ctx context.Context, q ListQuery) ([]Member, int64, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return s.store.List(ctx, q)
}

func (s *Service) Count(ctx context.Context, t *Type) (int64, error) {
	return s.store.Count(ctx, t)
}

// apply: patch の各項目を検証して m に反映
func (s *Service) apply(m *Member, p UpdateRequest) error {
	if p.Name != nil {
		v := strings.TrimSpace(*p.Name)
		if v == "" {
			return apierr.Invalid("name is required")
		}
		m.Name = v
	}
	if p.ElectoralArea != nil {
		v := strings.TrimSpace(*p.ElectoralArea)
		if v == "" {
			return apierr.Invalid("electoral_area is required")
		}
		m.ElectoralArea = v
	}
	if p.Contact != nil {
		v := strings.TrimSpace(*p.Contact)
		if v == "" {
			return apierr.Invalid("contact is required")
		}
		if utf8.RuneCountInString(v) < s.contactMin {
			return apierr.Invalid("contact is too short")
		}
		m.Contact = v
	}
	if p.Gender != nil {
		g, ok := ParseGender(*p.Gender)
		if !ok {
			return apierr.Invalid("gender must be Male or Female")
		}
		m.Gender = g
	}
	if p.IsConvener != nil {
		m.IsConvener = *p.IsConvener
	}
	return nil
}
