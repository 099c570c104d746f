package subcommittees

import (
	"fmt"
	"strings"
)

// 小委員会は固定の3つ。表示順だけ設定で変えられる。
type Subcommittee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var known = []Subcommittee{
	{ID: "travel", Name: "Travel"},
	{ID: "revenue", Name: "Revenue"},
	{ID: "transport", Name: "Transport"},
}

var DefaultOrder = []string{"Transport", "Revenue", "Travel"}

type Catalog struct {
	ordered []Subcommittee
	rank    map[string]int
}

// NewCatalog: order は表示順（名前またはID）。漏れたものは既定順で後ろに付く。
func NewCatalog(order []string) (*Catalog, error) {
	c := &Catalog{rank: make(map[string]int, len(known))}
	add := func(sc Subcommittee) {
		if _, dup := c.rank[sc.ID]; dup {
			return
		}
		c.rank[sc.ID] = len(c.ordered)
		c.ordered = append(c.ordered, sc)
	}
	for _, o := range order {
		sc, ok := find(o)
		if !ok {
			return nil, fmt.Errorf("unknown subcommittee %q", o)
		}
		add(sc)
	}
	for _, o := range DefaultOrder {
		sc, _ := find(o)
		add(sc)
	}
	return c, nil
}

func DefaultCatalog() *Catalog {
	c, _ := NewCatalog(DefaultOrder)
	return c
}

// Lookup: ID・表示名のどちらでも（大文字小文字無視）
func (c *Catalog) Lookup(s string) (Subcommittee, bool) { return find(s) }

func (c *Catalog) All() []Subcommittee {
	out := make([]Subcommittee, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Rank: 表示順（0始まり）。未知のIDは末尾扱い
func (c *Catalog) Rank(id string) int {
	if r, ok := c.rank[id]; ok {
		return r
	}
	return len(c.ordered)
}

func find(s string) (Subcommittee, bool) {
	s = strings.TrimSpace(s)
	for _, sc := range known {
		if strings.EqualFold(sc.ID, s) || strings.EqualFold(sc.Name, s) {
			return sc, true
		}
	}
	return Subcommittee{}, false
}
