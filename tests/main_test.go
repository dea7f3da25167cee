package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"github.com/turfbook/turf-booking-backend/internal/app"
	"github.com/turfbook/turf-booking-backend/internal/auth"
	"github.com/turfbook/turf-booking-backend/internal/turf"
	"github.com/turfbook/turf-booking-backend/internal/user"
)

var (
	testRouter *gin.Engine
	testPool   *pgxpool.Pool
	jwtManager *auth.JWTManager
	testLoc    *time.Location
)

const testHorizonDays = 35

func TestMain(m *testing.M) {
	// Attempt to load .env from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		log.Printf("No .env file found or failed to load: %v", err)
	}

	// These tests need a real Postgres instance
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		log.Println("TEST_DB_DSN not set, skipping integration tests")
		os.Exit(0)
	}

	ctx := context.Background()
	var err error
	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}

	testSecret := os.Getenv("TEST_JWT_SECRET")
	if testSecret == "" {
		testSecret = "integration-test-secret"
	}

	testLoc, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		log.Fatalf("Unable to load booking timezone: %v", err)
	}

	storageDir, err := os.MkdirTemp("", "turfbook-tests-*")
	if err != nil {
		log.Fatalf("Unable to create temp storage dir: %v", err)
	}
	defer os.RemoveAll(storageDir)

	gin.SetMode(gin.TestMode)

	// Initialize App Container using shared logic
	appContainer, err := app.NewContainer(app.Config{
		DBPool:              testPool,
		JWTSecret:           testSecret,
		JWTTTL:              30 * time.Minute,
		BcryptCost:          4, // Lower cost for testing purposes
		Timezone:            testLoc,
		CalendarHorizonDays: testHorizonDays,
		CalendarCronSpec:    "0 3 * * *", // never fires, the job is not started
		StoragePath:         storageDir,
	})
	if err != nil {
		log.Fatalf("Unable to init app container: %v", err)
	}

	testRouter = appContainer.Router
	jwtManager = appContainer.JWTManager

	exitCode := m.Run()

	testPool.Close()
	os.Exit(exitCode)
}

func clearTables() {
	ctx := context.Background()
	queries := []string{
		"TRUNCATE TABLE public.booking_players CASCADE",
		"TRUNCATE TABLE public.bookings CASCADE",
		"TRUNCATE TABLE public.turf_day_slots CASCADE",
		"TRUNCATE TABLE public.turfs CASCADE",
		"TRUNCATE TABLE public.users CASCADE",
	}
	for _, q := range queries {
		if _, err := testPool.Exec(ctx, q); err != nil {
			log.Printf("Failed to clean table: %v", err)
		}
	}
}

func executeRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func createTestUser(t *testing.T, name, email, password string, isAdmin bool) *user.User {
	hasher := auth.NewBcryptPasswordHasherWithCost(4)
	hash, err := hasher.Hash(password)
	require.NoError(t, err, "Failed to hash password")

	u := &user.User{
		Name:         name,
		Email:        &email,
		PasswordHash: &hash,
		IsAdmin:      isAdmin,
	}

	repo := user.NewPgxRepository(testPool)
	err = repo.Create(context.Background(), u)
	require.NoError(t, err, "Failed to create test user in DB")

	return u
}

// createTestTurf persists a turf through the service so its day-slot
// calendar is seeded for the full test horizon.
func createTestTurf(t *testing.T, adminID, openTime, closeTime string, slotDuration int, pricePerHour float64) *turf.Turf {
	svc := turf.NewService(turf.NewPgxRepository(testPool), testLoc, testHorizonDays)

	created, err := svc.Create(context.Background(), turf.CreateRequest{
		AdminID:      adminID,
		Name:         "Test Turf",
		Size:         "5v5",
		Location:     "Test Lane 1",
		OpenTime:     openTime,
		CloseTime:    closeTime,
		SlotDuration: slotDuration,
		PricePerHour: pricePerHour,
	})
	require.NoError(t, err, "Failed to create test turf")

	return created
}

func generateToken(t *testing.T, userID string, isAdmin bool) string {
	token, err := jwtManager.GenerateAccessToken(userID, isAdmin)
	require.NoError(t, err, "Failed to generate token")
	return token
}

// dateOffset formats a day relative to today in the booking timezone.
func dateOffset(days int) string {
	return time.Now().In(testLoc).AddDate(0, 0, days).Format("2006-01-02")
}
