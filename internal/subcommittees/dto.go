package subcommittees

import (
	"time"

	"KMA-backend/internal/members"
)

type AddMemberRequest struct {
	// SubcommitteeName: 表示名でもIDでもよい
	SubcommitteeName string `json:"subcommittee_name" binding:"required"`
	MemberID         string `json:"member_id"         binding:"required"`
	MemberType       string `json:"member_type"       binding:"required"`
}

type MembershipResponse struct {
	MembershipID     string       `json:"membership_id"`
	SubcommitteeID   string       `json:"subcommittee_id"`
	SubcommitteeName string       `json:"subcommittee_name"`
	MemberID         string       `json:"member_id"`
	MemberType       members.Type `json:"member_type"`
	MemberName       string       `json:"member_name,omitempty"`
	IsConvener       bool         `json:"is_convener"`
	CreatedAt        time.Time    `json:"created_at"`
}

type SubcommitteeResponse struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	ConvenerID *string              `json:"convener_id"`
	Members    []MembershipResponse `json:"members"`
}
