package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"payday/internal/jobs"
	"payday/internal/logger"
	"payday/internal/middleware"
	"payday/internal/notify"
	"payday/internal/server"
	"payday/internal/services"
	"payday/internal/testutil"
	"payday/internal/uuid"
	"payday/internal/validator"
)

const testCronKey = "integration-cron-key"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	testutil.MigrateTestDB(t, db)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	runner := jobs.NewRunner(services.NewPayCycleService(db), notify.LogPublisher{}, 2)
	router := server.NewRouter(server.Options{
		DB:         db,
		Jobs:       runner,
		CronAPIKey: testCronKey,
	})

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// cron calls a scheduler endpoint with the given API key.
func (app *testApp) cron(path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("X-API-Key", key)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// newUser issues an access token for a fresh user without a household claim,
// as the identity service does before the user joins a household.
func newUser(t *testing.T) (token, userID string) {
	t.Helper()
	userID = uuid.New()
	token, err := middleware.GenerateAccessToken(userID, "")
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token, userID
}

// mustStatus fails the test when the response code differs.
func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int, step string) map[string]interface{} {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("%s: expected %d, got %d: %s", step, want, rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

// assertAmount compares a decimal JSON field against want.
func assertAmount(t *testing.T, got interface{}, want string, field string) {
	t.Helper()
	s, ok := got.(string)
	if !ok {
		t.Errorf("%s: expected decimal string, got %T (%v)", field, got, got)
		return
	}
	if !decimal.RequireFromString(s).Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s, got %s", field, want, s)
	}
}
