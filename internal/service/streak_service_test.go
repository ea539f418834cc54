package service

import (
	"learning_platform_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStreakService(f *testFixture) *StreakService {
	return NewStreakService(f.streaks, f.db, f.clock)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStreakTouch_FirstActivity(t *testing.T) {
	f := newFixture(t)
	svc := newStreakService(f)
	user := f.createUser(t, "student", model.Student)

	state, err := svc.Touch(user.ID, time.Date(2025, 3, 10, 23, 45, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count)
	assert.Equal(t, day(2025, 3, 10), state.LastActiveDate)
}

func TestStreakTouch_SameDayIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := newStreakService(f)
	user := f.createUser(t, "student", model.Student)

	_, err := svc.Touch(user.ID, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	state, err := svc.Touch(user.ID, time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count)
}

func TestStreakTouch_ConsecutiveDay(t *testing.T) {
	f := newFixture(t)
	svc := newStreakService(f)
	user := f.createUser(t, "student", model.Student)

	_, err := svc.Touch(user.ID, day(2025, 3, 10))
	require.NoError(t, err)

	state, err := svc.Touch(user.ID, day(2025, 3, 11))
	require.NoError(t, err)
	assert.Equal(t, 2, state.Count)

	state, err = svc.Touch(user.ID, day(2025, 3, 12))
	require.NoError(t, err)
	assert.Equal(t, 3, state.Count)
}

func TestStreakTouch_GapResets(t *testing.T) {
	f := newFixture(t)
	svc := newStreakService(f)
	user := f.createUser(t, "student", model.Student)

	_, err := svc.Touch(user.ID, day(2025, 3, 10))
	require.NoError(t, err)
	_, err = svc.Touch(user.ID, day(2025, 3, 11))
	require.NoError(t, err)

	// 跳过3月12日
	state, err := svc.Touch(user.ID, day(2025, 3, 13))
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count)
	assert.Equal(t, day(2025, 3, 13), state.LastActiveDate)
}

func TestStreakTouch_BackdatedResets(t *testing.T) {
	f := newFixture(t)
	svc := newStreakService(f)
	user := f.createUser(t, "student", model.Student)

	_, err := svc.Touch(user.ID, day(2025, 3, 10))
	require.NoError(t, err)
	_, err = svc.Touch(user.ID, day(2025, 3, 11))
	require.NoError(t, err)

	// 事件日期早于已记录日期，按重置处理
	state, err := svc.Touch(user.ID, day(2025, 3, 8))
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count)
	assert.Equal(t, day(2025, 3, 8), state.LastActiveDate)
}

func TestStreakTouch_UTCBoundary(t *testing.T) {
	f := newFixture(t)
	svc := newStreakService(f)
	user := f.createUser(t, "student", model.Student)

	// UTC+8 的 3月11日 07:00 是 UTC 的 3月10日 23:00
	cst := time.FixedZone("CST", 8*3600)
	_, err := svc.Touch(user.ID, time.Date(2025, 3, 11, 7, 0, 0, 0, cst))
	require.NoError(t, err)

	state, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.True(t, state.LastActiveDate.Equal(day(2025, 3, 10)))

	// UTC 的 3月11日 00:30 已经跨日
	state, err = svc.Touch(user.ID, time.Date(2025, 3, 11, 0, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, state.Count)
}

func TestStreakGet_NoRecord(t *testing.T) {
	f := newFixture(t)
	svc := newStreakService(f)
	user := f.createUser(t, "student", model.Student)

	state, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Count)
}
