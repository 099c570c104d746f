package members

import (
	"time"

	"KMA-backend/internal/platform/db"
)

// DB行に対応（スキャン用）
type memberRow struct {
	MemberID      string
	MemberType    string
	Name          string
	ElectoralArea string
	Contact       string
	Gender        string
	IsConvener    bool
	CreatedAt     string
	UpdatedAt     string
}

type Member struct {
	MemberID      string
	MemberType    Type
	Name          string
	ElectoralArea string
	Contact       string
	Gender        Gender
	// IsConvener: 登録時の「議長候補」フラグ。実際の議長席は subcommittees が決める。
	IsConvener bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r memberRow) toModel() Member {
	return Member{
		MemberID:      r.MemberID,
		MemberType:    Type(r.MemberType),
		Name:          r.Name,
		ElectoralArea: r.ElectoralArea,
		Contact:       r.Contact,
		Gender:        Gender(r.Gender),
		IsConvener:    r.IsConvener,
		CreatedAt:     db.ParseTime(r.CreatedAt),
		UpdatedAt:     db.ParseTime(r.UpdatedAt),
	}
}

func (m Member) ToDTO() MemberResponse {
	return MemberResponse{
		MemberID:      m.MemberID,
		MemberType:    m.MemberType,
		Name:          m.Name,
		ElectoralArea: m.ElectoralArea,
		Contact:       m.Contact,
		Gender:        m.Gender,
		IsConvener:    m.IsConvener,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toDTOs(ms []Member) []MemberResponse {
	out := make([]MemberResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDTO())
	}
	return out
}
