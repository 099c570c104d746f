package subcommittees

import (
	"time"

	"KMA-backend/internal/members"
	"KMA-backend/internal/platform/db"
)

type membershipRow struct {
	MembershipID   string
	SubcommitteeID string
	MemberID       string
	MemberType     string
	IsConvener     bool
	CreatedAt      string
	MemberName     string
}

type Membership struct {
	MembershipID   string
	SubcommitteeID string
	MemberID       string
	MemberType     members.Type
	IsConvener     bool
	CreatedAt      time.Time
	// MemberName: 一覧系のみ（members と JOIN）
	MemberName string
}

func (r membershipRow) toModel() Membership {
	return Membership{
		MembershipID:   r.MembershipID,
		SubcommitteeID: r.SubcommitteeID,
		MemberID:       r.MemberID,
		MemberType:     members.Type(r.MemberType),
		IsConvener:     r.IsConvener,
		CreatedAt:      db.ParseTime(r.CreatedAt),
		MemberName:     r.MemberName,
	}
}

func (m Membership) toDTO(c *Catalog) MembershipResponse {
	name := m.SubcommitteeID
	if sc, ok := c.Lookup(m.SubcommitteeID); ok {
		name = sc.Name
	}
	return MembershipResponse{
		MembershipID:     m.MembershipID,
		SubcommitteeID:   m.SubcommitteeID,
		SubcommitteeName: name,
		MemberID:         m.MemberID,
		MemberType:       m.MemberType,
		MemberName:       m.MemberName,
		IsConvener:       m.IsConvener,
		CreatedAt:        m.CreatedAt,
	}
}

func toDTOs(ms []Membership, c *Catalog) []MembershipResponse {
	out := make([]MembershipResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].toDTO(c))
	}
	return out
}

// SubcommitteeMembers: 小委員会ごとの所属一覧
type SubcommitteeMembers struct {
	Subcommittee
	Members []Membership
}

func (s SubcommitteeMembers) Convener() (Membership, bool) {
	for _, m := range s.Members {
		if m.IsConvener {
			return m, true
		}
	}
	return Membership{}, false
}

func (s SubcommitteeMembers) toDTO(c *Catalog) SubcommitteeResponse {
	out := SubcommitteeResponse{ID: s.ID, Name: s.Name, Members: toDTOs(s.Members, c)}
	if cv, ok := s.Convener(); ok {
		id := cv.MemberID
		out.ConvenerID = &id
	}
	return out
}
