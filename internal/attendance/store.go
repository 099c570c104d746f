package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"KMA-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(q db.DBTX) *Store { return &Store{db: q} }

const selectCols = `attendance_id, member_id, context_kind, subcommittee_id, attended_on, is_convener_mark, clocked_at`

// Insert: (member, context, 日) の UNIQUE に当たれば呼び出し側で重複扱い
func (s *Store) Insert(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO attendances (`+selectCols+`)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.AttendanceID, r.MemberID, string(r.Context.Kind), r.Context.SubcommitteeID,
		r.AttendedOn, r.IsConvenerMark, db.FormatTime(r.ClockedAt))
	return err
}

// Exists: 指定会員が指定日に指定コンテキストで出席済みか
func (s *Store) Exists(ctx context.Context, c Context, memberID, on string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
	SELECT 1 FROM attendances
	WHERE member_id = ? AND context_kind = ? AND subcommittee_id = ? AND attended_on = ?
	LIMIT 1`, memberID, string(c.Kind), c.SubcommitteeID, on,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) CountForMember(ctx context.Context, c Context, memberID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM attendances
	WHERE member_id = ? AND context_kind = ? AND subcommittee_id = ?`,
		memberID, string(c.Kind), c.SubcommitteeID).Scan(&n)
	return n, err
}

// DeleteAll: 1文で消すので部分的に残ることはない
func (s *Store) DeleteAll(ctx context.Context, c Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
	DELETE FROM attendances WHERE context_kind = ? AND subcommittee_id = ?`,
		string(c.Kind), c.SubcommitteeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// List: 条件に応じて動的WHERE + ORDER + LIMIT/OFFSET
func (s *Store) List(ctx context.Context, q ListQuery, on, from, to string) ([]Record, int64, error) {
	var (
		args   []any
		wheres []string
	)
	if q.Context != nil {
		wheres = append(wheres, "context_kind = ?", "subcommittee_id = ?")
		args = append(args, string(q.Context.Kind), q.Context.SubcommitteeID)
	}
	if q.MemberID != nil && *q.MemberID != "" {
		wheres = append(wheres, "member_id = ?")
		args = append(args, *q.MemberID)
	}
	if on != "" {
		wheres = append(wheres, "attended_on = ?")
		args = append(args, on)
	} else {
		if from != "" {
			wheres = append(wheres, "attended_on >= ?")
			args = append(args, from)
		}
		if to != "" {
			wheres = append(wheres, "attended_on <= ?")
			args = append(args, to)
		}
	}
	where := ""
	if len(wheres) > 0 {
		where = " WHERE " + strings.Join(wheres, " AND ")
	}

	// COUNT を先に（単一接続のSQLiteで rows を開いたまま別クエリを投げない）
	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attendances"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	buf.WriteString("SELECT " + selectCols + " FROM attendances" + where)

	// ORDER
	switch q.Sort {
	case SortClockedAtAsc:
		buf.WriteString(" ORDER BY clocked_at ASC, attendance_id ASC")
	case SortAttendedOnDesc:
		buf.WriteString(" ORDER BY attended_on DESC, clocked_at DESC, attendance_id DESC")
	case SortAttendedOnAsc:
		buf.WriteString(" ORDER BY attended_on ASC, clocked_at ASC, attendance_id ASC")
	default:
		buf.WriteString(" ORDER BY clocked_at DESC, attendance_id DESC")
	}
	buf.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", q.Limit, q.Offset))

	rows, err := s.db.QueryContext(ctx, buf.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var r attendanceRow
		if err := rows.Scan(&r.AttendanceID, &r.MemberID, &r.ContextKind, &r.SubcommitteeID,
			&r.AttendedOn, &r.IsConvenerMark, &r.ClockedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, r.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Stats: 期間の出席数を会員別合計（TOP N）
func (s *Store) Stats(ctx context.Context, c *Context, from, to string, limit int) ([]StatsRow, error) {
	q := `
	SELECT a.member_id, COALESCE(m.name, ''), COUNT(*) AS cnt
	FROM attendances a
	LEFT JOIN members m ON m.member_id = a.member_id
	WHERE a.attended_on BETWEEN ? AND ?`
	args := []any{from, to}
	if c != nil {
		q += " AND a.context_kind = ? AND a.subcommittee_id = ?"
		args = append(args, string(c.Kind), c.SubcommitteeID)
	}
	q += `
	GROUP BY a.member_id, m.name
	ORDER BY cnt DESC, a.member_id ASC
	LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []StatsRow{}
	for rows.Next() {
		var row StatsRow
		if err := rows.Scan(&row.MemberID, &row.MemberName, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountByKind: 種別ごとの出席記録数
func (s *Store) CountByKind(ctx context.Context) (map[Kind]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT context_kind, COUNT(*) FROM attendances GROUP BY context_kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[Kind]int64{KindSubcommittee: 0, KindGeneral: 0, KindExeco: 0}
	for rows.Next() {
		var (
			k string
			n int64
		)
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		out[Kind(k)] = n
	}
	return out, rows.Err()
}
