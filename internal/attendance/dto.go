package attendance

import "time"

const (
	SortClockedAtDesc  = "clocked_at_desc"
	SortClockedAtAsc   = "clocked_at_asc"
	SortAttendedOnDesc = "attended_on_desc"
	SortAttendedOnAsc  = "attended_on_asc"
	DefaultPageLimit   = 50
	MaxPageLimit       = 200
	DefaultSort        = SortClockedAtDesc
	DefaultStatsLimit  = 10
)

type MarkRequest struct {
	Context        string `json:"context"   binding:"required"`
	MemberID       string `json:"member_id" binding:"required"`
	IsConvenerMark bool   `json:"is_convener_mark"`
}

type BatchRequest struct {
	Context        string   `json:"context"    binding:"required"`
	MemberIDs      []string `json:"member_ids" binding:"required"`
	IsConvenerMark bool     `json:"is_convener_mark"`
}

type AttendanceResponse struct {
	AttendanceID     string    `json:"attendance_id"`
	MemberID         string    `json:"member_id"`
	Context          string    `json:"context"`
	AttendedOn       string    `json:"attended_on"` // YYYY-MM-DD
	IsConvenerMark   bool      `json:"is_convener_mark"`
	ClockedAt        time.Time `json:"clocked_at"`
	MeetingsAttended int64     `json:"meetings_attended,omitempty"`
}

type Failure struct {
	MemberID string `json:"member_id"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

type BatchResponse struct {
	Marked   []AttendanceResponse `json:"marked"`
	Failures []Failure            `json:"failures"`
}

type TodayResponse struct {
	Context  string `json:"context"`
	MemberID string `json:"member_id"`
	On       string `json:"on"`
	Marked   bool   `json:"marked"`
}

type ClearResponse struct {
	Context string `json:"context"`
	Count   int64  `json:"count"`
}

type ListQuery struct {
	Context  *Context
	MemberID *string
	On       *string // YYYY-MM-DD or "today"
	From     *string
	To       *string
	Limit    int
	Offset   int
	Sort     string
}

type ListResponse struct {
	Items []AttendanceResponse `json:"items"`
	Total int64                `json:"total"`
}

type StatsRequest struct {
	Context *Context
	From    string // YYYY-MM-DD
	To      string // YYYY-MM-DD
	Limit   int
}

type StatsRow struct {
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	Count      int64  `json:"count"`
}
