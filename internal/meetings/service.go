package meetings

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"KMA-backend/internal/platform/apierr"
	"KMA-backend/internal/platform/clock"
	"KMA-backend/internal/platform/db"
	"KMA-backend/internal/platform/idgen"
	"KMA-backend/internal/platform/logger"
)

type Service struct {
	db    *sql.DB
	store *Store
	clock clock.Clock
	id    idgen.IDGen
	log   *logrus.Logger
}

type Option func(*Service)

func WithClock(c clock.Clock) Option     { return func(s *Service) { s.clock = c } }
func WithIDGen(g idgen.IDGen) Option     { return func(s *Service) { s.id = g } }
func WithLogger(l *logrus.Logger) Option { return func(s *Service) { s.log = l } }

func NewService(conn *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:    conn,
		store: NewStore(conn),
		clock: clock.NewReal(nil),
		id:    idgen.NewULID(),
		log:   logger.Discard(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// POST /meetings
func (s *Service) Create(ctx context.Context, in CreateRequest) (Meeting, error) {
	m := Meeting{Minutes: in.Minutes, CreatedBy: strings.TrimSpace(in.CreatedBy)}
	if err := apply(&m, UpdateRequest{Title: &in.Title, MeetingDate: &in.MeetingDate}); err != nil {
		return Meeting{}, err
	}
	id, err := s.id.New()
	if err != nil {
		return Meeting{}, err
	}
	now := s.clock.Now().UTC()
	m.MeetingID, m.CreatedAt, m.UpdatedAt = id, now, now
	if err := s.store.Insert(ctx, m); err != nil {
		return Meeting{}, err
	}
	s.log.WithFields(logrus.Fields{"meeting_id": m.MeetingID, "date": m.MeetingDate}).Info("meeting created")
	return m, nil
}

func (s *Service) Get(ctx context.Context, id string) (Meeting, error) {
	m, err := s.store.Get(ctx, id)
	if isNoRows(err) {
		return Meeting{}, apierr.NotFound("meeting not found")
	}
	return m, err
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Meeting, int64, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.List(ctx, limit, offset)
}

// PUT /meetings/:meeting_id
func (s *Service) Update(ctx context.Context, id string, patch UpdateRequest) (Meeting, error) {
	var out Meeting
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		st := NewStore(tx)
		m, err := st.Get(ctx, id)
		if isNoRows(err) {
			return apierr.NotFound("meeting not found")
		}
		if err != nil {
			return err
		}
		if err := apply(&m, patch); err != nil {
			return err
		}
		m.UpdatedAt = s.clock.Now().UTC()
		if err := st.Update(ctx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	return out, err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apierr.NotFound("meeting not found")
	}
	return nil
}

func apply(m *Meeting, p UpdateRequest) error {
	if p.Title != nil {
		v := strings.TrimSpace(*p.Title)
		if v == "" {
			return apierr.Invalid("title is required")
		}
		m.Title = v
	}
	if p.MeetingDate != nil {
		v := strings.TrimSpace(*p.MeetingDate)
		if _, err := time.Parse(db.DateLayout, v); err != nil {
			return apierr.Invalid("meeting_date must be YYYY-MM-DD")
		}
		m.MeetingDate = v
	}
	if p.Minutes != nil {
		m.Minutes = *p.Minutes
	}
	return nil
}
