package attendance

import (
	"time"

	"KMA-backend/internal/platform/db"
)

// DB行に対応（スキャン用）
type attendanceRow struct {
	AttendanceID   string
	MemberID       string
	ContextKind    string
	SubcommitteeID string
	AttendedOn     string
	IsConvenerMark bool
	ClockedAt      string
}

type Record struct {
	AttendanceID   string
	MemberID       string
	Context        Context
	AttendedOn     string
	IsConvenerMark bool
	ClockedAt      time.Time
	// MeetingsAttended: 台帳の行数から導出（保存しない）
	MeetingsAttended int64
}

func (r attendanceRow) toModel() Record {
	return Record{
		AttendanceID:   r.AttendanceID,
		MemberID:       r.MemberID,
		Context:        Context{Kind: Kind(r.ContextKind), SubcommitteeID: r.SubcommitteeID},
		AttendedOn:     r.AttendedOn,
		IsConvenerMark: r.IsConvenerMark,
		ClockedAt:      db.ParseTime(r.ClockedAt),
	}
}

func (a Record) ToDTO() AttendanceResponse {
	return AttendanceResponse{
		AttendanceID:     a.AttendanceID,
		MemberID:         a.MemberID,
		Context:          a.Context.String(),
		AttendedOn:       a.AttendedOn,
		IsConvenerMark:   a.IsConvenerMark,
		ClockedAt:        a.ClockedAt,
		MeetingsAttended: a.MeetingsAttended,
	}
}

type BatchResult struct {
	Marked   []Record
	Failures []Failure
}

func (b BatchResult) ToDTO() BatchResponse {
	out := BatchResponse{Marked: make([]AttendanceResponse, 0, len(b.Marked)), Failures: b.Failures}
	for _, r := range b.Marked {
		out.Marked = append(out.Marked, r.ToDTO())
	}
	if out.Failures == nil {
		out.Failures = []Failure{}
	}
	return out
}
