package meetings

import (
	"context"
	"database/sql"
	"fmt"

	"KMA-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(q db.DBTX) *Store { return &Store{db: q} }

const selectCols = `meeting_id, title, meeting_date, minutes, created_by, created_at, updated_at`

func scanMeeting(sc interface{ Scan(...any) error }) (Meeting, error) {
	var r meetingRow
	if err := sc.Scan(&r.MeetingID, &r.Title, &r.MeetingDate, &r.Minutes, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return Meeting{}, err
	}
	return r.toModel(), nil
}

func (s *Store) Insert(ctx context.Context, m Meeting) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO meetings (`+selectCols+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.MeetingID, m.Title, m.MeetingDate, m.Minutes, m.CreatedBy,
		db.FormatTime(m.CreatedAt), db.FormatTime(m.UpdatedAt))
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Meeting, error) {
	return scanMeeting(s.db.QueryRowContext(ctx, `SELECT `+selectCols+` FROM meetings WHERE meeting_id = ?`, id))
}

func (s *Store) Update(ctx context.Context, m Meeting) error {
	_, err := s.db.ExecContext(ctx, `
	UPDATE meetings SET title = ?, meeting_date = ?, minutes = ?, updated_at = ?
	WHERE meeting_id = ?`,
		m.Title, m.MeetingDate, m.Minutes, db.FormatTime(m.UpdatedAt), m.MeetingID)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM meetings WHERE meeting_id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// List: 開催日の新しい順
func (s *Store) List(ctx context.Context, limit, offset int) ([]Meeting, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meetings`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectCols+` FROM meetings`+
		fmt.Sprintf(" ORDER BY meeting_date DESC, created_at DESC LIMIT %d OFFSET %d", limit, offset))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func isNoRows(err error) bool { return err == sql.ErrNoRows }
