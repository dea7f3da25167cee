package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingHttp "github.com/turfbook/turf-booking-backend/internal/booking/http"
	"github.com/turfbook/turf-booking-backend/internal/pkg/response"
)

// bookingEnvelope matches the {"booking": {...}} wrapper used by the
// booking endpoints.
type bookingEnvelope struct {
	Booking bookingHttp.BookingResponse `json:"booking"`
}

func TestBookingLifecycle(t *testing.T) {
	clearTables()

	admin := createTestUser(t, "Admin", "admin@turf.com", "pass", true)
	booker := createTestUser(t, "Booker", "booker@turf.com", "pass", false)
	stranger := createTestUser(t, "Stranger", "stranger@turf.com", "pass", false)

	adminToken := generateToken(t, admin.ID, true)
	bookerToken := generateToken(t, booker.ID, false)
	strangerToken := generateToken(t, stranger.ID, false)

	// 600 per hour, hourly slots from 06:00 to 23:00
	testTurf := createTestTurf(t, admin.ID, "06:00", "23:00", 60, 600)

	bookingDay := dateOffset(1)
	var bookingID string

	t.Run("Create Booking: Unauthorized Without Token", func(t *testing.T) {
		payload := bookingHttp.CreateBookingRequest{
			TurfID: testTurf.ID, Date: bookingDay,
			StartTime: "10:00", EndTime: "11:00",
		}
		w := executeRequest("POST", "/v1/bookings", payload, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Create Booking: Invalid Input", func(t *testing.T) {
		// Missing turf ID
		w := executeRequest("POST", "/v1/bookings", map[string]any{
			"date": bookingDay, "startTime": "10:00", "endTime": "11:00",
		}, bookerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		// Malformed clock value
		w = executeRequest("POST", "/v1/bookings", map[string]any{
			"turfId": testTurf.ID, "date": bookingDay,
			"startTime": "10am", "endTime": "11:00",
		}, bookerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		// End before start
		payload := bookingHttp.CreateBookingRequest{
			TurfID: testTurf.ID, Date: bookingDay,
			StartTime: "11:00", EndTime: "10:00",
		}
		w = executeRequest("POST", "/v1/bookings", payload, bookerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		// Unknown turf
		payload.TurfID = "00000000-0000-0000-0000-000000000000"
		payload.StartTime, payload.EndTime = "10:00", "11:00"
		w = executeRequest("POST", "/v1/bookings", payload, bookerToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Create Booking: Success", func(t *testing.T) {
		payload := bookingHttp.CreateBookingRequest{
			TurfID: testTurf.ID, Date: bookingDay,
			StartTime: "10:00", EndTime: "11:30",
			RequestedPlayers: 3,
		}
		w := executeRequest("POST", "/v1/bookings", payload, bookerToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp bookingEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Booking.ID)
		assert.Equal(t, testTurf.ID, resp.Booking.Turf.ID)
		assert.Equal(t, booker.ID, resp.Booking.User.ID)
		assert.Equal(t, bookingDay, resp.Booking.Date)
		assert.Equal(t, 900.0, resp.Booking.Price) // 600/hour for 90 minutes
		assert.Equal(t, 900.0, resp.Booking.RemAmount)
		assert.Equal(t, 3, resp.Booking.RequestedPlayers)
		assert.Equal(t, "confirmed", resp.Booking.Status)

		bookingID = resp.Booking.ID
	})

	t.Run("Create Booking: Collision", func(t *testing.T) {
		cases := []struct {
			name       string
			start, end string
		}{
			{"Exact same interval", "10:00", "11:30"},
			{"Partial overlap at the end", "11:00", "12:00"},
			{"Partial overlap at the start", "09:30", "10:30"},
			{"Existing interval inside candidate", "09:00", "13:00"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				payload := bookingHttp.CreateBookingRequest{
					TurfID: testTurf.ID, Date: bookingDay,
					StartTime: tc.start, EndTime: tc.end,
				}
				w := executeRequest("POST", "/v1/bookings", payload, strangerToken)
				assert.Equal(t, http.StatusBadRequest, w.Code)

				var errResp response.ErrorResponse
				json.Unmarshal(w.Body.Bytes(), &errResp)
				assert.Equal(t, "Booking collision detected", errResp.Message)
			})
		}
	})

	t.Run("Create Booking: Adjacent and Other Day Succeed", func(t *testing.T) {
		// Back to back with the existing booking
		payload := bookingHttp.CreateBookingRequest{
			TurfID: testTurf.ID, Date: bookingDay,
			StartTime: "11:30", EndTime: "12:30",
		}
		w := executeRequest("POST", "/v1/bookings", payload, strangerToken)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		// Same interval on the next day
		payload = bookingHttp.CreateBookingRequest{
			TurfID: testTurf.ID, Date: dateOffset(2),
			StartTime: "10:00", EndTime: "11:30",
		}
		w = executeRequest("POST", "/v1/bookings", payload, strangerToken)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("Get Booking: Permissions", func(t *testing.T) {
		path := fmt.Sprintf("/v1/bookings/%s", bookingID)

		wOwner := executeRequest("GET", path, nil, bookerToken)
		assert.Equal(t, http.StatusOK, wOwner.Code)

		wAdmin := executeRequest("GET", path, nil, adminToken)
		assert.Equal(t, http.StatusOK, wAdmin.Code)

		wStranger := executeRequest("GET", path, nil, strangerToken)
		assert.Equal(t, http.StatusForbidden, wStranger.Code)

		wBadID := executeRequest("GET", "/v1/bookings/not-a-uuid", nil, adminToken)
		assert.Equal(t, http.StatusBadRequest, wBadID.Code)

		wMissing := executeRequest("GET", "/v1/bookings/00000000-0000-0000-0000-000000000000", nil, adminToken)
		assert.Equal(t, http.StatusNotFound, wMissing.Code)
	})

	t.Run("List Bookings: Scoped to Caller Unless Admin", func(t *testing.T) {
		w := executeRequest("GET", "/v1/bookings", nil, bookerToken)
		require.Equal(t, http.StatusOK, w.Code)

		var resp response.PageResponse[bookingHttp.BookingResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, bookingID, resp.Items[0].ID)

		// Admin filtering by user sees the same booking
		path := fmt.Sprintf("/v1/bookings?user_id=%s", booker.ID)
		wAdmin := executeRequest("GET", path, nil, adminToken)
		require.Equal(t, http.StatusOK, wAdmin.Code)

		var respAdmin response.PageResponse[bookingHttp.BookingResponse]
		require.NoError(t, json.Unmarshal(wAdmin.Body.Bytes(), &respAdmin))
		assert.Equal(t, 1, respAdmin.Total)
	})

	t.Run("Join Booking: Splits the Price", func(t *testing.T) {
		payload := bookingHttp.JoinBookingRequest{BookingID: bookingID, PlayersCount: 2}
		w := executeRequest("POST", "/v1/bookings/join", payload, strangerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp bookingEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 300.0, resp.Booking.RemAmount) // 900 across 3 heads
		assert.Equal(t, 1, resp.Booking.RequestedPlayers)
		require.Len(t, resp.Booking.JoinedPlayers, 1)
		assert.Equal(t, stranger.ID, resp.Booking.JoinedPlayers[0].User.ID)
		assert.Equal(t, 2, resp.Booking.JoinedPlayers[0].PlayersCount)
		assert.Equal(t, 300.0, resp.Booking.JoinedPlayers[0].Price)
	})

	t.Run("Join Booking: Capacity Exceeded", func(t *testing.T) {
		payload := bookingHttp.JoinBookingRequest{BookingID: bookingID, PlayersCount: 2}
		w := executeRequest("POST", "/v1/bookings/join", payload, strangerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var errResp response.ErrorResponse
		json.Unmarshal(w.Body.Bytes(), &errResp)
		assert.Equal(t, "Requested players exceed the needed players", errResp.Message)
	})

	t.Run("Update Remaining Amount: Admin Only, Bounded", func(t *testing.T) {
		path := fmt.Sprintf("/v1/bookings/%s", bookingID)
		amount := 150.0
		payload := bookingHttp.UpdateBookingRequest{RemAmount: &amount}

		// Non-admin is rejected
		w := executeRequest("PUT", path, payload, bookerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)

		// Admin succeeds
		w = executeRequest("PUT", path, payload, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp bookingEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 150.0, resp.Booking.RemAmount)

		// Negative and above-price amounts are rejected
		bad := -1.0
		w = executeRequest("PUT", path, bookingHttp.UpdateBookingRequest{RemAmount: &bad}, adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		tooMuch := 10000.0
		w = executeRequest("PUT", path, bookingHttp.UpdateBookingRequest{RemAmount: &tooMuch}, adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Cancel Booking: Frees the Interval", func(t *testing.T) {
		path := fmt.Sprintf("/v1/bookings/%s/cancel", bookingID)

		// A stranger cannot cancel someone else's booking
		w := executeRequest("POST", path, nil, strangerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)

		// The booker can
		w = executeRequest("POST", path, nil, bookerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp bookingEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "cancelled", resp.Booking.Status)

		// Cancelling twice is rejected
		w = executeRequest("POST", path, nil, bookerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		// The interval is bookable again
		payload := bookingHttp.CreateBookingRequest{
			TurfID: testTurf.ID, Date: bookingDay,
			StartTime: "10:00", EndTime: "11:30",
		}
		w = executeRequest("POST", "/v1/bookings", payload, strangerToken)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})
}

func TestOfflineBooking(t *testing.T) {
	clearTables()

	admin := createTestUser(t, "Admin", "admin@offline.com", "pass", true)
	member := createTestUser(t, "Member", "member@offline.com", "pass", false)
	adminToken := generateToken(t, admin.ID, true)
	memberToken := generateToken(t, member.ID, false)

	testTurf := createTestTurf(t, admin.ID, "06:00", "23:00", 60, 500)

	t.Run("Requires Admin", func(t *testing.T) {
		payload := bookingHttp.CreateOfflineBookingRequest{
			TurfID: testTurf.ID, Name: "Walk In", Number: "9876543210",
			Date: dateOffset(1), StartTime: "09:00", EndTime: "10:00",
		}
		w := executeRequest("POST", "/v1/bookings/offline", payload, memberToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Creates a Guest and Reuses It by Phone", func(t *testing.T) {
		payload := bookingHttp.CreateOfflineBookingRequest{
			TurfID: testTurf.ID, Name: "Walk In", Number: "9876543210",
			Date: dateOffset(1), StartTime: "09:00", EndTime: "10:00",
		}
		w := executeRequest("POST", "/v1/bookings/offline", payload, adminToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var first bookingEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
		assert.Equal(t, "Walk In", first.Booking.User.Name)
		assert.Equal(t, "confirmed", first.Booking.Status)

		// Same phone on another day resolves to the same guest account
		payload.Date = dateOffset(2)
		w = executeRequest("POST", "/v1/bookings/offline", payload, adminToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var second bookingEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
		assert.Equal(t, first.Booking.User.ID, second.Booking.User.ID)
	})

	t.Run("Offline Bookings Collide with Online Ones", func(t *testing.T) {
		payload := bookingHttp.CreateOfflineBookingRequest{
			TurfID: testTurf.ID, Name: "Walk In", Number: "9876543210",
			Date: dateOffset(1), StartTime: "09:30", EndTime: "10:30",
		}
		w := executeRequest("POST", "/v1/bookings/offline", payload, adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var errResp response.ErrorResponse
		json.Unmarshal(w.Body.Bytes(), &errResp)
		assert.Equal(t, "Booking collision detected", errResp.Message)
	})
}
