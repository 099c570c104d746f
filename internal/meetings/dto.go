package meetings

import "time"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

type CreateRequest struct {
	Title       string `json:"title"        binding:"required"`
	MeetingDate string `json:"meeting_date" binding:"required"` // YYYY-MM-DD
	Minutes     string `json:"minutes"`
	CreatedBy   string `json:"created_by"`
}

type UpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	MeetingDate *string `json:"meeting_date,omitempty"`
	Minutes     *string `json:"minutes,omitempty"`
}

type MeetingResponse struct {
	MeetingID   string    `json:"meeting_id"`
	Title       string    `json:"title"`
	MeetingDate string    `json:"meeting_date"`
	Minutes     string    `json:"minutes"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListResponse struct {
	Items []MeetingResponse `json:"items"`
	Total int64             `json:"total"`
}
