package members_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KMA-backend/internal/members"
	"KMA-backend/internal/platform/apierr"
	"KMA-backend/internal/platform/clock"
	"KMA-backend/internal/platform/db/dbtest"
)

func newService(t *testing.T) (*members.Service, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC), nil)
	return members.NewService(dbtest.Open(t), members.WithClock(clk)), clk
}

func validRequest() members.RegisterRequest {
	return members.RegisterRequest{
		MemberType:    "AssemblyMember",
		Name:          "Ama Owusu",
		ElectoralArea: "Adum",
		Contact:       "0551234567",
		Gender:        "Female",
	}
}

func TestRegister(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	m, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)
	assert.Len(t, m.MemberID, 26)
	assert.Equal(t, members.TypeAssemblyMember, m.MemberType)
	assert.Equal(t, members.GenderFemale, m.Gender)

	got, err := svc.Get(ctx, m.MemberID, members.TypeAssemblyMember)
	require.NoError(t, err)
	assert.Equal(t, "Ama Owusu", got.Name)
	assert.True(t, got.CreatedAt.Equal(m.CreatedAt))

	// 種別が違えば別人扱い
	_, err = svc.Get(ctx, m.MemberID, members.TypeGovernmentAppointee)
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	cases := map[string]func(r *members.RegisterRequest){
		"blank name":    func(r *members.RegisterRequest) { r.Name = "   " },
		"blank area":    func(r *members.RegisterRequest) { r.ElectoralArea = "" },
		"blank contact": func(r *members.RegisterRequest) { r.Contact = "" },
		"short contact": func(r *members.RegisterRequest) { r.Contact = "055123" },
		"bad gender":    func(r *members.RegisterRequest) { r.Gender = "x" },
		"bad type":      func(r *members.RegisterRequest) { r.MemberType = "Chief" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			_, err := svc.Register(ctx, req)
			assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument), "got %v", err)
		})
	}
}

func TestContactMinLengthConfigurable(t *testing.T) {
	svc := members.NewService(dbtest.Open(t), members.WithContactMinLength(4))
	req := validRequest()
	req.Contact = "0551"
	_, err := svc.Register(context.Background(), req)
	assert.NoError(t, err)
}

func TestSearch(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)
	other := validRequest()
	other.Name = "Kofi Mensah"
	other.Contact = "0249876543"
	other.MemberType = "appointee"
	b, err := svc.Register(ctx, other)
	require.NoError(t, err)

	got, err := svc.Search(ctx, "055123")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.MemberID, got[0].MemberID)

	got, err = svc.Search(ctx, "kofi")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.MemberID, got[0].MemberID)

	got, err = svc.Search(ctx, "  ")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	// ワイルドカードは文字として扱う
	got, err = svc.Search(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpdate(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()

	m, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)
	clk.Advance(time.Hour)

	name := "Ama K. Owusu"
	yes := true
	got, err := svc.Update(ctx, m.MemberID, m.MemberType, members.UpdateRequest{Name: &name, IsConvener: &yes})
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	assert.True(t, got.IsConvener)
	assert.Equal(t, "0551234567", got.Contact)
	assert.True(t, got.UpdatedAt.After(m.UpdatedAt))

	short := "12"
	_, err = svc.Update(ctx, m.MemberID, m.MemberType, members.UpdateRequest{Contact: &short})
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))

	_, err = svc.Update(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", m.MemberType, members.UpdateRequest{Name: &name})
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))
}

func TestDeleteIsNotIdempotent(t *testing.T) {
	conn := dbtest.Open(t)
	svc := members.NewService(conn)
	ctx := context.Background()

	m, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)

	_, err = conn.ExecContext(ctx, `INSERT INTO memberships
		(membership_id, subcommittee_id, member_id, member_type, is_convener, created_at)
		VALUES ('ms1', 'travel', ?, 'AssemblyMember', FALSE, '2025-05-01 09:00:00.000000')`, m.MemberID)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, `INSERT INTO attendances
		(attendance_id, member_id, context_kind, subcommittee_id, attended_on, is_convener_mark, clocked_at)
		VALUES ('at1', ?, 'general', '', '2025-05-01', FALSE, '2025-05-01 09:00:00.000000')`, m.MemberID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, m.MemberID, m.MemberType))

	var n int
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM memberships`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendances`).Scan(&n))
	assert.Zero(t, n)

	err = svc.Delete(ctx, m.MemberID, m.MemberType)
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))
}

func TestListNewestFirst(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()

	var ids []string
	for i, contact := range []string{"0550000001", "0550000002", "0550000003"} {
		req := validRequest()
		req.Contact = contact
		if i == 2 {
			req.MemberType = "GovernmentAppointee"
		}
		m, err := svc.Register(ctx, req)
		require.NoError(t, err)
		ids = append(ids, m.MemberID)
		clk.Advance(time.Minute)
	}

	got, total, err := svc.List(ctx, members.ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, got, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{got[0].MemberID, got[1].MemberID, got[2].MemberID})

	at := members.TypeAssemblyMember
	got, total, err = svc.List(ctx, members.ListQuery{MemberType: &at, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, got, 1)
	assert.Equal(t, ids[1], got[0].MemberID)

	n, err := svc.Count(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
