package attendance

import (
	"strings"

	"KMA-backend/internal/platform/apierr"
	"KMA-backend/internal/subcommittees"
)

type Kind string

const (
	KindSubcommittee Kind = "subcommittee"
	KindGeneral      Kind = "general"
	KindExeco        Kind = "execo"
)

// Context: 出席台帳の単位。小委員会ごと・総会・execo は互いに独立
type Context struct {
	Kind           Kind
	SubcommitteeID string
}

func General() Context { return Context{Kind: KindGeneral} }
func Execo() Context   { return Context{Kind: KindExeco} }

func Subcommittee(id string) Context {
	return Context{Kind: KindSubcommittee, SubcommitteeID: id}
}

func (c Context) String() string {
	if c.Kind == KindSubcommittee {
		return string(KindSubcommittee) + ":" + c.SubcommitteeID
	}
	return string(c.Kind)
}

// ParseContext: "subcommittee:travel" / "travel" / "general" / "execo" など
func ParseContext(s string, cat *subcommittees.Catalog) (Context, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "":
		return Context{}, apierr.Invalid("context is required")
	case "general", "general-meeting", "general_meeting":
		return General(), nil
	case "execo", "convener", "convener-meeting", "convener_meeting":
		return Execo(), nil
	}
	name := strings.TrimPrefix(v, string(KindSubcommittee)+":")
	sc, ok := cat.Lookup(name)
	if !ok {
		return Context{}, apierr.Invalid("unknown context " + s)
	}
	return Subcommittee(sc.ID), nil
}
