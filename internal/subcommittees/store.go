package subcommittees

import (
	"context"
	"database/sql"

	"KMA-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(q db.DBTX) *Store { return &Store{db: q} }

const selectJoined = `
	SELECT ms.membership_id, ms.subcommittee_id, ms.member_id, ms.member_type,
	       ms.is_convener, ms.created_at, COALESCE(m.name, '')
	FROM memberships ms
	LEFT JOIN members m ON m.member_id = ms.member_id`

func scanMembership(sc interface{ Scan(...any) error }) (Membership, error) {
	var r membershipRow
	if err := sc.Scan(&r.MembershipID, &r.SubcommitteeID, &r.MemberID, &r.MemberType,
		&r.IsConvener, &r.CreatedAt, &r.MemberName); err != nil {
		return Membership{}, err
	}
	return r.toModel(), nil
}

// Insert: 議長なら convener_of / convener_member を埋めて UNIQUE に守らせる
func (s *Store) Insert(ctx context.Context, m Membership) error {
	var convenerOf, convenerMember any
	if m.IsConvener {
		convenerOf = m.SubcommitteeID
		convenerMember = m.MemberID
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO memberships
	(membership_id, subcommittee_id, member_id, member_type, is_convener, convener_of, convener_member, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MembershipID, m.SubcommitteeID, m.MemberID, string(m.MemberType), m.IsConvener,
		convenerOf, convenerMember, db.FormatTime(m.CreatedAt))
	return err
}

func (s *Store) Delete(ctx context.Context, subcommitteeID, memberID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
	DELETE FROM memberships WHERE subcommittee_id = ? AND member_id = ?`, subcommitteeID, memberID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *Store) Get(ctx context.Context, subcommitteeID, memberID string) (Membership, error) {
	row := s.db.QueryRowContext(ctx, selectJoined+`
	WHERE ms.subcommittee_id = ? AND ms.member_id = ?`, subcommitteeID, memberID)
	return scanMembership(row)
}

func (s *Store) ListByMember(ctx context.Context, memberID string) ([]Membership, error) {
	rows, err := s.db.QueryContext(ctx, selectJoined+`
	WHERE ms.member_id = ?
	ORDER BY ms.created_at ASC, ms.membership_id ASC`, memberID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListBySubcommittee: 議長を先頭、以降は名前順
func (s *Store) ListBySubcommittee(ctx context.Context, subcommitteeID string) ([]Membership, error) {
	rows, err := s.db.QueryContext(ctx, selectJoined+`
	WHERE ms.subcommittee_id = ?
	ORDER BY ms.is_convener DESC, m.name ASC, ms.member_id ASC`, subcommitteeID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) ListAll(ctx context.Context) ([]Membership, error) {
	rows, err := s.db.QueryContext(ctx, selectJoined+`
	ORDER BY ms.is_convener DESC, m.name ASC, ms.member_id ASC`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) ListConveners(ctx context.Context) ([]Membership, error) {
	rows, err := s.db.QueryContext(ctx, selectJoined+`
	WHERE ms.is_convener = ?
	ORDER BY m.name ASC, ms.member_id ASC`, true)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) HasConvener(ctx context.Context, subcommitteeID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
	SELECT 1 FROM memberships WHERE convener_of = ? LIMIT 1`, subcommitteeID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ConvenerSeat: 会員が議長を務める所属（無ければ sql.ErrNoRows）
func (s *Store) ConvenerSeat(ctx context.Context, memberID string) (Membership, error) {
	row := s.db.QueryRowContext(ctx, selectJoined+`
	WHERE ms.convener_member = ?`, memberID)
	return scanMembership(row)
}

func (s *Store) CountConveners(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memberships WHERE is_convener = ?`, true).Scan(&n)
	return n, err
}

func collect(rows *sql.Rows) ([]Membership, error) {
	defer rows.Close()
	out := []Membership{}
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
