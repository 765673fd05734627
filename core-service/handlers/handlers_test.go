package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffhub-backend/shared/database/models"
)

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04:05", value)
	require.NoError(t, err)
	return ts
}

func TestPairAttendanceDaysPairsFirstInWithLastOut(t *testing.T) {
	userID := uuid.New()
	records := []models.AttendanceRecord{
		{UserID: userID, Type: models.AttendanceCheckIn, RecordedAt: at(t, "2025-06-02 09:00:00")},
		{UserID: userID, Type: models.AttendanceCheckOut, RecordedAt: at(t, "2025-06-02 12:00:00")},
		{UserID: userID, Type: models.AttendanceCheckIn, RecordedAt: at(t, "2025-06-02 13:00:00")},
		{UserID: userID, Type: models.AttendanceCheckOut, RecordedAt: at(t, "2025-06-02 17:30:00")},
	}
	profiles := map[uuid.UUID]models.Profile{
		userID: {ID: userID, FullName: "Jane Doe", Email: "jane@staffhub.dev"},
	}

	rows := pairAttendanceDays(records, profiles)

	require.Len(t, rows, 1)
	assert.Equal(t, "Jane Doe", rows[0].EmployeeName)
	assert.Equal(t, "2025-06-02", rows[0].Date)
	require.NotNil(t, rows[0].CheckIn)
	require.NotNil(t, rows[0].CheckOut)
	assert.Equal(t, "09:00:00", rows[0].CheckIn.Format("15:04:05"))
	assert.Equal(t, "17:30:00", rows[0].CheckOut.Format("15:04:05"))
	assert.InDelta(t, 8.5, rows[0].HoursWorked, 0.001)
}

func TestPairAttendanceDaysMissingCheckOut(t *testing.T) {
	userID := uuid.New()
	records := []models.AttendanceRecord{
		{UserID: userID, Type: models.AttendanceCheckIn, RecordedAt: at(t, "2025-06-03 08:45:00")},
	}

	rows := pairAttendanceDays(records, map[uuid.UUID]models.Profile{})

	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].CheckIn)
	assert.Nil(t, rows[0].CheckOut)
	assert.Zero(t, rows[0].HoursWorked)
}

func TestPairAttendanceDaysSplitsUsersAndDays(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	records := []models.AttendanceRecord{
		{UserID: alice, Type: models.AttendanceCheckIn, RecordedAt: at(t, "2025-06-02 09:00:00")},
		{UserID: alice, Type: models.AttendanceCheckOut, RecordedAt: at(t, "2025-06-02 17:00:00")},
		{UserID: alice, Type: models.AttendanceCheckIn, RecordedAt: at(t, "2025-06-03 09:00:00")},
		{UserID: bob, Type: models.AttendanceCheckIn, RecordedAt: at(t, "2025-06-02 10:00:00")},
	}

	rows := pairAttendanceDays(records, map[uuid.UUID]models.Profile{})

	assert.Len(t, rows, 3)
	// Sorted by date first
	assert.Equal(t, "2025-06-02", rows[0].Date)
	assert.Equal(t, "2025-06-02", rows[1].Date)
	assert.Equal(t, "2025-06-03", rows[2].Date)
}

func TestLeaveDays(t *testing.T) {
	start := at(t, "2025-06-02 00:00:00")

	assert.Equal(t, 1, leaveDays(start, start))
	assert.Equal(t, 3, leaveDays(start, at(t, "2025-06-04 00:00:00")))
	// Degenerate input still counts as one day
	assert.Equal(t, 1, leaveDays(at(t, "2025-06-04 00:00:00"), start))
}

func TestValidateShiftTimes(t *testing.T) {
	assert.NoError(t, validateShiftTimes("08:00", "16:00"))
	assert.NoError(t, validateShiftTimes("22:00", "06:00"))
	assert.Error(t, validateShiftTimes("8am", "16:00"))
	assert.Error(t, validateShiftTimes("08:00", "25:00"))
}

func TestValidateSalaryMonth(t *testing.T) {
	assert.NoError(t, validateSalaryMonth("2025-06"))
	assert.Error(t, validateSalaryMonth("2025-13"))
	assert.Error(t, validateSalaryMonth("June 2025"))
	assert.Error(t, validateSalaryMonth("2025-06-01"))
}
