package meetings

import (
	"time"

	"KMA-backend/internal/platform/db"
)

type meetingRow struct {
	MeetingID   string
	Title       string
	MeetingDate string
	Minutes     string
	CreatedBy   string
	CreatedAt   string
	UpdatedAt   string
}

type Meeting struct {
	MeetingID   string
	Title       string
	MeetingDate string
	Minutes     string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r meetingRow) toModel() Meeting {
	return Meeting{
		MeetingID:   r.MeetingID,
		Title:       r.Title,
		MeetingDate: r.MeetingDate,
		Minutes:     r.Minutes,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   db.ParseTime(r.CreatedAt),
		UpdatedAt:   db.ParseTime(r.UpdatedAt),
	}
}

func (m Meeting) ToDTO() MeetingResponse {
	return MeetingResponse(m)
}
