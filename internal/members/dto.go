package members

import (
	"strings"
	"time"
)

type Type string

const (
	TypeAssemblyMember      Type = "AssemblyMember"
	TypeGovernmentAppointee Type = "GovernmentAppointee"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

const (
	DefaultPageLimit        = 50
	MaxPageLimit            = 200
	DefaultContactMinLength = 10
	searchLimit             = 100
)

// ParseType: URLパス用の別名も受け付ける（assemblymember / appointee）
func ParseType(s string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "assemblymember", "assembly-member", "assembly_member":
		return TypeAssemblyMember, true
	case "governmentappointee", "government-appointee", "government_appointee", "appointee":
		return TypeGovernmentAppointee, true
	}
	return "", false
}

func ParseGender(s string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale, true
	case "female":
		return GenderFemale, true
	}
	return "", false
}

type RegisterRequest struct {
	MemberType    string `json:"member_type"    binding:"required"`
	Name          string `json:"name"           binding:"required"`
	ElectoralArea string `json:"electoral_area" binding:"required"`
	Contact       string `json:"contact"        binding:"required"`
	Gender        string `json:"gender"         binding:"required"`
	IsConvener    bool   `json:"is_convener"`
}

// UpdateRequest: nil のフィールドは変更しない
type UpdateRequest struct {
	Name          *string `json:"name,omitempty"`
	ElectoralArea *string `json:"electoral_area,omitempty"`
	Contact       *string `json:"contact,omitempty"`
	Gender        *string `json:"gender,omitempty"`
	IsConvener    *bool   `json:"is_convener,omitempty"`
}

type MemberResponse struct {
	MemberID      string    `json:"member_id"`
	MemberType    Type      `json:"member_type"`
	Name          string    `json:"name"`
	ElectoralArea string    `json:"electoral_area"`
	Contact       string    `json:"contact"`
	Gender        Gender    `json:"gender"`
	IsConvener    bool      `json:"is_convener"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ListQuery struct {
	MemberType *Type
	Limit      int
	Offset     int
}

type ListResponse struct {
	Items []MemberResponse `json:"items"`
	Total int64            `json:"total"`
}
