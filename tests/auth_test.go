package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userHttp "github.com/turfbook/turf-booking-backend/internal/user/http"
)

func TestAuthFlow(t *testing.T) {
	clearTables()

	t.Run("Register: Success", func(t *testing.T) {
		payload := userHttp.RegisterRequest{
			Name:     "Asha",
			Email:    "asha@example.com",
			Password: "supersecret",
		}
		w := executeRequest("POST", "/v1/auth/register", payload, "")
		require.Equal(t, http.StatusCreated, w.Code)

		var resp userHttp.MeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.User.ID)
		assert.Equal(t, "Asha", resp.User.Name)
		require.NotNil(t, resp.User.Email)
		assert.Equal(t, "asha@example.com", *resp.User.Email)
		assert.False(t, resp.User.IsAdmin)
		assert.False(t, resp.User.IsGuest)
	})

	t.Run("Register: Duplicate Email", func(t *testing.T) {
		payload := userHttp.RegisterRequest{
			Name:     "Asha Again",
			Email:    "asha@example.com",
			Password: "supersecret",
		}
		w := executeRequest("POST", "/v1/auth/register", payload, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Register: Invalid Payloads", func(t *testing.T) {
		w := executeRequest("POST", "/v1/auth/register", map[string]any{
			"name": "No Email", "password": "supersecret",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = executeRequest("POST", "/v1/auth/register", map[string]any{
			"name": "Bad Email", "email": "not-an-email", "password": "supersecret",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Login: Success", func(t *testing.T) {
		payload := userHttp.LoginRequest{
			Email:    "asha@example.com",
			Password: "supersecret",
		}
		w := executeRequest("POST", "/v1/auth/login", payload, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp userHttp.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.AccessToken)

		// The issued token works against an authenticated endpoint.
		wMe := executeRequest("GET", "/v1/me", nil, resp.AccessToken)
		require.Equal(t, http.StatusOK, wMe.Code)

		var me userHttp.MeResponse
		require.NoError(t, json.Unmarshal(wMe.Body.Bytes(), &me))
		assert.Equal(t, resp.User.ID, me.User.ID)
	})

	t.Run("Login: Wrong Password", func(t *testing.T) {
		payload := userHttp.LoginRequest{
			Email:    "asha@example.com",
			Password: "wrong",
		}
		w := executeRequest("POST", "/v1/auth/login", payload, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Me: Missing or Bad Token", func(t *testing.T) {
		w := executeRequest("GET", "/v1/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = executeRequest("GET", "/v1/me", nil, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
