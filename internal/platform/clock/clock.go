// Package clock はサーバ側の唯一の時計。「今日」は常にここから決める。
package clock

import (
	"sync"
	"time"

	"KMA-backend/internal/platform/db"
)

type Clock interface {
	Now() time.Time
	// Today: 設定タイムゾーンでの日付（YYYY-MM-DD）
	Today() string
}

type Real struct {
	Loc *time.Location
}

func NewReal(loc *time.Location) Real {
	if loc == nil {
		loc = time.UTC
	}
	return Real{Loc: loc}
}

func (r Real) Now() time.Time { return time.Now().In(r.loc()) }

func (r Real) Today() string { return Day(time.Now(), r.loc()) }

func (r Real) loc() *time.Location {
	if r.Loc == nil {
		return time.UTC
	}
	return r.Loc
}

// Manual: テスト用。Set/Advance で進める。
type Manual struct {
	mu  sync.Mutex
	now time.Time
	loc *time.Location
}

func NewManual(now time.Time, loc *time.Location) *Manual {
	if loc == nil {
		loc = time.UTC
	}
	return &Manual{now: now, loc: loc}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now.In(m.loc)
}

func (m *Manual) Today() string { return Day(m.Now(), m.loc) }

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Day: t を loc の暦日に切り詰める
func Day(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(db.DateLayout)
}
