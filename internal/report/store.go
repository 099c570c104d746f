package report

import (
	"context"
	"database/sql"

	"KMA-backend/internal/attendance"
	"KMA-backend/internal/platform/db"
)

// tally: 集計の1行（金額は service で付ける）
type tally struct {
	SubcommitteeID string
	MemberID       string
	MemberName     string
	IsConvener     bool
	Count          int64
}

type Store struct{ db db.DBTX }

func NewStore(q db.DBTX) *Store { return &Store{db: q} }

// Subcommittees: 所属ごとの出席数。subcommitteeID が空なら全小委員会
func (s *Store) Subcommittees(ctx context.Context, subcommitteeID string) ([]tally, error) {
	q := `
	SELECT ms.subcommittee_id, ms.member_id, m.name, ms.is_convener, COUNT(a.attendance_id)
	FROM memberships ms
	JOIN members m ON m.member_id = ms.member_id
	LEFT JOIN attendances a
	       ON a.member_id = ms.member_id
	      AND a.context_kind = ?
	      AND a.subcommittee_id = ms.subcommittee_id`
	args := []any{string(attendance.KindSubcommittee)}
	if subcommitteeID != "" {
		q += " WHERE ms.subcommittee_id = ?"
		args = append(args, subcommitteeID)
	}
	q += " GROUP BY ms.subcommittee_id, ms.member_id, m.name, ms.is_convener"
	return s.query(ctx, q, args...)
}

// General: 登録会員全員。議長席を持つかも付ける
func (s *Store) General(ctx context.Context) ([]tally, error) {
	return s.query(ctx, `
	SELECT COALESCE(cv.subcommittee_id, ''), m.member_id, m.name, cv.membership_id IS NOT NULL, COUNT(a.attendance_id)
	FROM members m
	LEFT JOIN memberships cv ON cv.convener_member = m.member_id
	LEFT JOIN attendances a
	       ON a.member_id = m.member_id
	      AND a.context_kind = ?
	GROUP BY cv.subcommittee_id, m.member_id, m.name, cv.membership_id`,
		string(attendance.KindGeneral))
}

// Execo: 議長全員
func (s *Store) Execo(ctx context.Context) ([]tally, error) {
	return s.query(ctx, `
	SELECT cv.subcommittee_id, m.member_id, m.name, cv.is_convener, COUNT(a.attendance_id)
	FROM memberships cv
	JOIN members m ON m.member_id = cv.member_id
	LEFT JOIN attendances a
	       ON a.member_id = cv.member_id
	      AND a.context_kind = ?
	WHERE cv.convener_member IS NOT NULL
	GROUP BY cv.subcommittee_id, m.member_id, m.name, cv.is_convener`,
		string(attendance.KindExeco))
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]tally, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []tally{}
	for rows.Next() {
		var (
			t    tally
			conv sql.NullBool
		)
		if err := rows.Scan(&t.SubcommitteeID, &t.MemberID, &t.MemberName, &conv, &t.Count); err != nil {
			return nil, err
		}
		t.IsConvener = conv.Valid && conv.Bool
		out = append(out, t)
	}
	return out, rows.Err()
}
