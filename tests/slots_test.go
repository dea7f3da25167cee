package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingHttp "github.com/turfbook/turf-booking-backend/internal/booking/http"
	"github.com/turfbook/turf-booking-backend/internal/turf"
	turfHttp "github.com/turfbook/turf-booking-backend/internal/turf/http"
)

func getSlots(t *testing.T, path string) turfHttp.SlotsResponse {
	w := executeRequest("GET", path, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp turfHttp.SlotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSlotAvailabilityViews(t *testing.T) {
	clearTables()

	admin := createTestUser(t, "Admin", "admin@slots.com", "pass", true)
	booker := createTestUser(t, "Booker", "booker@slots.com", "pass", false)
	bookerToken := generateToken(t, booker.ID, false)

	// Three hourly slots: 09:00, 10:00, 11:00
	testTurf := createTestTurf(t, admin.ID, "09:00", "12:00", 60, 400)
	day := dateOffset(1)

	slotsPath := fmt.Sprintf("/v1/turfs/%s/slots?date=%s", testTurf.ID, day)
	gridPath := fmt.Sprintf("/v1/turfs/%s/day-slots?date=%s", testTurf.ID, day)
	bookedPath := fmt.Sprintf("/v1/bookings/%s/booked-slots?date=%s", testTurf.ID, day)

	t.Run("Empty Day: Everything Available", func(t *testing.T) {
		for _, path := range []string{slotsPath, gridPath} {
			resp := getSlots(t, path)
			assert.Equal(t, []turf.Slot{
				{StartTime: "09:00", EndTime: "10:00"},
				{StartTime: "10:00", EndTime: "11:00"},
				{StartTime: "11:00", EndTime: "12:00"},
			}, resp.AvailableSlots)
			assert.Empty(t, resp.BookedSlots)
		}

		w := executeRequest("GET", bookedPath, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var booked struct {
			BookedSlots []turf.Slot `json:"bookedSlots"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booked))
		assert.Empty(t, booked.BookedSlots)
	})

	t.Run("Booking Marks Contained Slots in Both Views", func(t *testing.T) {
		payload := bookingHttp.CreateBookingRequest{
			TurfID: testTurf.ID, Date: day,
			StartTime: "10:00", EndTime: "12:00",
		}
		w := executeRequest("POST", "/v1/bookings", payload, bookerToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		// Computed view partitions by overlap with the booking
		computed := getSlots(t, slotsPath)
		assert.Equal(t, []turf.Slot{{StartTime: "09:00", EndTime: "10:00"}}, computed.AvailableSlots)
		assert.Equal(t, []turf.Slot{
			{StartTime: "10:00", EndTime: "11:00"},
			{StartTime: "11:00", EndTime: "12:00"},
		}, computed.BookedSlots)

		// The persisted grid was synchronized in the same transaction
		grid := getSlots(t, gridPath)
		assert.Equal(t, computed.AvailableSlots, grid.AvailableSlots)
		assert.Equal(t, computed.BookedSlots, grid.BookedSlots)

		// The raw range view reports the booking interval itself
		w = executeRequest("GET", bookedPath, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var booked struct {
			BookedSlots []turf.Slot `json:"bookedSlots"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booked))
		assert.Equal(t, []turf.Slot{{StartTime: "10:00", EndTime: "12:00"}}, booked.BookedSlots)
	})

	t.Run("Other Days Are Untouched", func(t *testing.T) {
		otherDay := dateOffset(2)
		resp := getSlots(t, fmt.Sprintf("/v1/turfs/%s/day-slots?date=%s", testTurf.ID, otherDay))
		assert.Len(t, resp.AvailableSlots, 3)
		assert.Empty(t, resp.BookedSlots)
	})

	t.Run("Cancel Releases the Grid Slots", func(t *testing.T) {
		// Find the booking via the caller's list
		w := executeRequest("GET", "/v1/bookings", nil, bookerToken)
		require.Equal(t, http.StatusOK, w.Code)
		var list struct {
			Items []bookingHttp.BookingResponse `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list.Items, 1)

		cancelPath := fmt.Sprintf("/v1/bookings/%s/cancel", list.Items[0].ID)
		w = executeRequest("POST", cancelPath, nil, bookerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		for _, path := range []string{slotsPath, gridPath} {
			resp := getSlots(t, path)
			assert.Len(t, resp.AvailableSlots, 3)
			assert.Empty(t, resp.BookedSlots)
		}
	})

	t.Run("Date Parameter Is Required", func(t *testing.T) {
		w := executeRequest("GET", fmt.Sprintf("/v1/turfs/%s/slots", testTurf.ID), nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = executeRequest("GET", fmt.Sprintf("/v1/turfs/%s/day-slots?date=junk", testTurf.ID), nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Operating Hours Endpoint", func(t *testing.T) {
		w := executeRequest("GET", fmt.Sprintf("/v1/turfs/%s/operating-hours", testTurf.ID), nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp turfHttp.OperatingHoursResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "09:00", resp.OpeningTime)
		assert.Equal(t, "12:00", resp.ClosingTime)
		assert.Equal(t, 60, resp.SlotDuration)
	})
}

func TestCalendarExtension(t *testing.T) {
	clearTables()

	admin := createTestUser(t, "Admin", "admin@calendar.com", "pass", true)
	testTurf := createTestTurf(t, admin.ID, "09:00", "12:00", 60, 400)

	svc := turf.NewService(turf.NewPgxRepository(testPool), testLoc, testHorizonDays)
	ctx := context.Background()
	today := time.Now().In(testLoc)

	// The calendar was seeded for the full horizon at creation time.
	appended, err := svc.ExtendCalendar(ctx, testTurf.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 0, appended)

	// Five days later the horizon has five missing days to top up.
	appended, err = svc.ExtendCalendar(ctx, testTurf.ID, today.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, 5, appended)

	// The topped-up days carry the full slot grid.
	day, err := time.ParseInLocation("2006-01-02", dateOffset(testHorizonDays+4), testLoc)
	require.NoError(t, err)
	slots, err := svc.DaySlots(ctx, testTurf.ID, day)
	require.NoError(t, err)
	assert.Len(t, slots, 3)

	// Extending again from the same day is a no-op.
	appended, err = svc.ExtendCalendar(ctx, testTurf.ID, today.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, 0, appended)
}
