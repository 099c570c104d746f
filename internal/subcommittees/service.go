package subcommittees

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/sirupsen/logrus"

	"KMA-backend/internal/members"
	"KMA-backend/internal/platform/apierr"
	"KMA-backend/internal/platform/clock"
	"KMA-backend/internal/platform/db"
	"KMA-backend/internal/platform/idgen"
	"KMA-backend/internal/platform/lock"
	"KMA-backend/internal/platform/logger"
	"KMA-backend/internal/platform/metrics"
)

const DefaultMaxSubcommittees = 2

// MemberLookup: members.Service が満たす。Tx 内で会員を引く。
type MemberLookup interface {
	Lookup(ctx context.Context, q db.DBTX, id string, t members.Type) (members.Member, error)
}

type Service struct {
	db      *sql.DB
	store   *Store
	members MemberLookup
	catalog *Catalog
	clock   clock.Clock
	id      idgen.IDGen
	log     *logrus.Logger
	metrics *metrics.Metrics
	locks   *lock.Keyed
	max     int
}

type Option func(*Service)

func WithCatalog(c *Catalog) Option         { return func(s *Service) { s.catalog = c } }
func WithClock(c clock.Clock) Option        { return func(s *Service) { s.clock = c } }
func WithIDGen(g idgen.IDGen) Option        { return func(s *Service) { s.id = g } }
func WithLogger(l *logrus.Logger) Option    { return func(s *Service) { s.log = l } }
func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }
func WithLocks(k *lock.Keyed) Option        { return func(s *Service) { s.locks = k } }
func WithMaxSubcommittees(n int) Option     { return func(s *Service) { s.max = n } }

func NewService(conn *sql.DB, lookup MemberLookup, opts ...Option) *Service {
	s := &Service{
		db:      conn,
		store:   NewStore(conn),
		members: lookup,
		catalog: DefaultCatalog(),
		clock:   clock.NewReal(nil),
		id:      idgen.NewULID(),
		log:     logger.Discard(),
		metrics: metrics.Nop(),
		locks:   lock.NewKeyed(),
		max:     DefaultMaxSubcommittees,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Catalog() *Catalog { return s.catalog }

// POST /subcommittees/members
//
// 判定順: 存在 → 上限 → 重複 → 議長判定。
// 議長候補でも、他で議長を務めている／この小委員会に議長がいる場合は一般メンバーとして加える。
func (s *Service) AddMember(ctx context.Context, in AddMemberRequest) (Membership, error) {
	sc, ok := s.catalog.Lookup(in.SubcommitteeName)
	if !ok {
		return Membership{}, s.reject("not_found", apierr.NotFound("subcommittee not found"), in)
	}
	t, ok := members.ParseType(in.MemberType)
	if !ok {
		return Membership{}, apierr.Invalid("member_type must be AssemblyMember or GovernmentAppointee")
	}

	unlock := s.locks.Lock(in.MemberID)
	defer unlock()

	var out Membership
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		m, err := s.members.Lookup(ctx, tx, in.MemberID, t)
		if err != nil {
			return err
		}

		st := NewStore(tx)
		current, err := st.ListByMember(ctx, m.MemberID)
		if err != nil {
			return err
		}
		if len(current) >= s.max {
			return apierr.Capacity("member already belongs to the maximum number of subcommittees")
		}
		convenerElsewhere := false
		for _, ms := range current {
			if ms.SubcommitteeID == sc.ID {
				return apierr.Duplicate("member already belongs to this subcommittee")
			}
			if ms.IsConvener {
				convenerElsewhere = true
			}
		}

		seatTaken, err := st.HasConvener(ctx, sc.ID)
		if err != nil {
			return err
		}

		id, err := s.id.New()
		if err != nil {
			return err
		}
		out = Membership{
			MembershipID:   id,
			SubcommitteeID: sc.ID,
			MemberID:       m.MemberID,
			MemberType:     m.MemberType,
			IsConvener:     m.IsConvener && !convenerElsewhere && !seatTaken,
			CreatedAt:      s.clock.Now().UTC(),
			MemberName:     m.Name,
		}
		if m.IsConvener && !out.IsConvener {
			s.log.WithFields(logrus.Fields{"member_id": m.MemberID, "subcommittee": sc.ID}).
				Info("convener seat unavailable, added as ordinary member")
		}

		err = st.Insert(ctx, out)
		if out.IsConvener && db.ViolatesKey(err, "convener") {
			// 別プロセスに議長席を取られた: 事前判定と同じく一般メンバーに落とす
			out.IsConvener = false
			err = st.Insert(ctx, out)
		}
		if db.IsUniqueViolation(err) {
			return apierr.Duplicate("member already belongs to this subcommittee")
		}
		return err
	})
	if err != nil {
		return Membership{}, s.reject(reasonOf(err), err, in)
	}
	s.log.WithFields(logrus.Fields{
		"member_id":    out.MemberID,
		"subcommittee": out.SubcommitteeID,
		"convener":     out.IsConvener,
	}).Info("member added to subcommittee")
	return out, nil
}

// DELETE /subcommittees/:subcommittee_id/members/:member_id
// 出席履歴は残す
func (s *Service) RemoveMember(ctx context.Context, subcommittee, memberID string) error {
	sc, ok := s.catalog.Lookup(subcommittee)
	if !ok {
		return apierr.NotFound("subcommittee not found")
	}
	unlock := s.locks.Lock(memberID)
	defer unlock()

	removed, err := s.store.Delete(ctx, sc.ID, memberID)
	if err != nil {
		return err
	}
	if !removed {
		return apierr.NotFound("membership not found")
	}
	s.log.WithFields(logrus.Fields{"member_id": memberID, "subcommittee": sc.ID}).Info("member removed from subcommittee")
	return nil
}

// GET /subcommittees/:subcommittee_id/members
func (s *Service) ListBySubcommittee(ctx context.Context, subcommittee string) ([]Membership, error) {
	sc, ok := s.catalog.Lookup(subcommittee)
	if !ok {
		return nil, apierr.NotFound("subcommittee not found")
	}
	return s.store.ListBySubcommittee(ctx, sc.ID)
}

// GET /subcommittees: 表示順に並べる
func (s *Service) List(ctx context.Context) ([]SubcommitteeMembers, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int)
	out := make([]SubcommitteeMembers, 0, len(s.catalog.ordered))
	for _, sc := range s.catalog.All() {
		idx[sc.ID] = len(out)
		out = append(out, SubcommitteeMembers{Subcommittee: sc, Members: []Membership{}})
	}
	for _, m := range all {
		i, ok := idx[m.SubcommitteeID]
		if !ok {
			continue
		}
		out[i].Members = append(out[i].Members, m)
	}
	return out, nil
}

// GET /conveners: execo の対象者。小委員会の表示順 → 名前順
func (s *Service) Conveners(ctx context.Context) ([]Membership, error) {
	cs, err := s.store.ListConveners(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(cs, func(i, j int) bool {
		return s.catalog.Rank(cs[i].SubcommitteeID) < s.catalog.Rank(cs[j].SubcommitteeID)
	})
	return cs, nil
}

func (s *Service) CountConveners(ctx context.Context) (int64, error) {
	return s.store.CountConveners(ctx)
}

// Membership: 出席判定用。q は呼び出し側の Tx
func (s *Service) Membership(ctx context.Context, q db.DBTX, subcommitteeID, memberID string) (Membership, error) {
	m, err := NewStore(q).Get(ctx, subcommitteeID, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return Membership{}, apierr.NotFound("member does not belong to this subcommittee")
	}
	return m, err
}

// ConvenerSeat: ok=false なら議長ではない
func (s *Service) ConvenerSeat(ctx context.Context, q db.DBTX, memberID string) (Membership, bool, error) {
	m, err := NewStore(q).ConvenerSeat(ctx, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return Membership{}, false, nil
	}
	if err != nil {
		return Membership{}, false, err
	}
	return m, true, nil
}

func (s *Service) reject(reason string, err error, in AddMemberRequest) error {
	if reason == "" {
		s.log.WithError(err).Error("add member to subcommittee")
		return err
	}
	s.metrics.MembershipRejected.WithLabelValues(reason).Inc()
	s.log.WithFields(logrus.Fields{
		"member_id":    in.MemberID,
		"subcommittee": in.SubcommitteeName,
		"reason":       reason,
	}).Warn("membership rejected")
	return err
}

// reasonOf: ルール違反ならメトリクス用の理由、想定外なら空
func reasonOf(err error) string {
	switch apierr.CodeOf(err) {
	case apierr.CodeNotFound:
		return "not_found"
	case apierr.CodeCapacityExceeded:
		return "capacity"
	case apierr.CodeDuplicate:
		return "duplicate"
	case apierr.CodeInvalidArgument:
		return "invalid"
	}
	return ""
}
