package report

import "KMA-backend/internal/payment"

const (
	LabelGeneral = "General Meeting"
	LabelExeco   = "Execo"
)

type Row struct {
	SubcommitteeName string         `json:"subcommittee_name"`
	SubcommitteeID   string         `json:"subcommittee_id,omitempty"`
	Context          string         `json:"context"`
	MemberID         string         `json:"member_id"`
	MemberName       string         `json:"member_name"`
	MeetingsAttended int64          `json:"meetings_attended"`
	IsConvener       bool           `json:"is_convener"`
	Amount           payment.Amount `json:"amount"`
}

type Totals struct {
	AssemblyMembers      int64            `json:"assembly_members"`
	GovernmentAppointees int64            `json:"government_appointees"`
	Conveners            int64            `json:"conveners"`
	Attendance           map[string]int64 `json:"attendance"`
}
