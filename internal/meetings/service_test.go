package meetings_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KMA-backend/internal/meetings"
	"KMA-backend/internal/platform/apierr"
	"KMA-backend/internal/platform/clock"
	"KMA-backend/internal/platform/db/dbtest"
)

func TestMeetingsCRUD(t *testing.T) {
	clk := clock.NewManual(time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC), nil)
	svc := meetings.NewService(dbtest.Open(t), meetings.WithClock(clk))
	ctx := context.Background()

	first, err := svc.Create(ctx, meetings.CreateRequest{Title: "Budget review", MeetingDate: "2025-07-15", Minutes: "draft"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, meetings.CreateRequest{Title: "Road levy", MeetingDate: "2025-07-30", CreatedBy: "clerk"})
	require.NoError(t, err)

	list, total, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, second.MeetingID, list[0].MeetingID)

	clk.Advance(time.Minute)
	minutes := "approved"
	got, err := svc.Update(ctx, first.MeetingID, meetings.UpdateRequest{Minutes: &minutes})
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Minutes)
	assert.Equal(t, "Budget review", got.Title)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	require.NoError(t, svc.Delete(ctx, first.MeetingID))
	_, err = svc.Get(ctx, first.MeetingID)
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))
	assert.True(t, apierr.Is(svc.Delete(ctx, first.MeetingID), apierr.CodeNotFound))
}

func TestMeetingValidation(t *testing.T) {
	svc := meetings.NewService(dbtest.Open(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, meetings.CreateRequest{Title: " ", MeetingDate: "2025-07-15"})
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))

	_, err = svc.Create(ctx, meetings.CreateRequest{Title: "x", MeetingDate: "15/07/2025"})
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))

	title := "x"
	_, err = svc.Update(ctx, "missing", meetings.UpdateRequest{Title: &title})
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))
}
