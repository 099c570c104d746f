package members

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"KMA-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(q db.DBTX) *Store { return &Store{db: q} }

const selectCols = `member_id, member_type, name, electoral_area, contact, gender, is_convener, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(sc scanner) (Member, error) {
	var r memberRow
	if err := sc.Scan(&r.MemberID, &r.MemberType, &r.Name, &r.ElectoralArea, &r.Contact,
		&r.Gender, &r.IsConvener, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return Member{}, err
	}
	return r.toModel(), nil
}

func (s *Store) Insert(ctx context.Context, m Member) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO members (`+selectCols+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MemberID, string(m.MemberType), m.Name, m.ElectoralArea, m.Contact,
		string(m.Gender), m.IsConvener, db.FormatTime(m.CreatedAt), db.FormatTime(m.UpdatedAt))
	return err
}

// Get: (id, type) の組で取得。無ければ sql.ErrNoRows
func (s *Store) Get(ctx context.Context, id string, t Type) (Member, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT `+selectCols+` FROM members
	WHERE member_id = ? AND member_type = ?`, id, string(t))
	return scanMember(row)
}

func (s *Store) GetByID(ctx context.Context, id string) (Member, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectCols+` FROM members WHERE member_id = ?`, id)
	return scanMember(row)
}

// Search: contact の部分一致 または name の部分一致（大文字小文字無視）
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Member, error) {
	pat := "%" + db.EscapeLike(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
	SELECT `+selectCols+` FROM members
	WHERE contact LIKE ? ESCAPE '!'
	   OR LOWER(name) LIKE LOWER(?) ESCAPE '!'
	ORDER BY name ASC, member_id ASC
	LIMIT ?`, pat, pat, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// Update: 存在確認は呼び出し側（MySQL は値が同じだと RowsAffected=0 になる）
func (s *Store) Update(ctx context.Context, m Member) error {
	_, err := s.db.ExecContext(ctx, `
	UPDATE members
	SET name = ?, electoral_area = ?, contact = ?, gender = ?, is_convener = ?, updated_at = ?
	WHERE member_id = ? AND member_type = ?`,
		m.Name, m.ElectoralArea, m.Contact, string(m.Gender), m.IsConvener, db.FormatTime(m.UpdatedAt),
		m.MemberID, string(m.MemberType))
	return err
}

// Delete: 会員とその所属・出席履歴をまとめて消す（Tx内で呼ぶこと）
func (s *Store) Delete(ctx context.Context, id string, t Type) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE member_id = ? AND member_type = ?`, id, string(t))
	if err != nil {
		return err
	}
	if err := mustAffect(res); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM memberships WHERE member_id = ?`, id); err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM attendances WHERE member_id = ?`, id); err != nil {
		return fmt.Errorf("delete attendances: %w", err)
	}
	return nil
}

// List: 新しい順
func (s *Store) List(ctx context.Context, q ListQuery) ([]Member, int64, error) {
	where := ""
	var args []any
	if q.MemberType != nil {
		where = " WHERE member_type = ?"
		args = append(args, string(*q.MemberType))
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM members"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+selectCols+" FROM members"+where+
			fmt.Sprintf(" ORDER BY created_at DESC, member_id DESC LIMIT %d OFFSET %d", q.Limit, q.Offset),
		args...)
	if err != nil {
		return nil, 0, err
	}
	out, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) Count(ctx context.Context, t *Type) (int64, error) {
	var n int64
	var err error
	if t == nil {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members`).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members WHERE member_type = ?`, string(*t)).Scan(&n)
	}
	return n, err
}

// ===== helpers =====

func collect(rows *sql.Rows) ([]Member, error) {
	defer rows.Close()
	out := []Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func isNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }
