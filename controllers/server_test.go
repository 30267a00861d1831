package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"makeoverapi/config"
	"makeoverapi/dbhelper"
	"makeoverapi/flows"
	"makeoverapi/models"
	"makeoverapi/store"
	"makeoverapi/test"
)

type recordingEnqueuer struct {
	mu    sync.Mutex
	Err   error
	Tasks []*asynq.Task
}

func (r *recordingEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	r.Tasks = append(r.Tasks, task)
	return &asynq.TaskInfo{ID: fmt.Sprintf("task-%d", len(r.Tasks)), Queue: "generate"}, nil
}

type testServer struct {
	e      *echo.Echo
	db     *gorm.DB
	bucket *test.BucketMock
	text   *test.StubTextGenerator
	image  *test.StubImageGenerator
	tasks  *recordingEnqueuer
}

var fixedNow = time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, db *gorm.DB) *testServer {
	stores, err := store.Open(store.BackendPostgres, db, nil)
	require.NoError(t, err)
	ts := &testServer{
		db:     db,
		bucket: &test.BucketMock{},
		text:   test.TextJSON(test.Outfit()),
		image:  &test.StubImageGenerator{URI: test.PNGDataURI},
		tasks:  &recordingEnqueuer{},
	}
	pipeline := flows.NewPipeline(ts.text, ts.image, &test.StubProductFinder{}, zap.NewNop())
	ts.e = SetupServer(Dependencies{
		DB: db,
		Config: &config.Config{
			JWTSecret:      "test-secret",
			GoogleClientID: "google-client",
		},
		Google:   test.GoogleServiceMock{},
		Bucket:   ts.bucket,
		ReadURLs: test.ReadURLMock{},
		Stores:   stores,
		Actions:  flows.NewActions(pipeline, zap.NewNop()),
		Tasks:    ts.tasks,
		Logger:   zap.NewNop(),
		Now:      func() time.Time { return fixedNow },
	})
	return ts
}

func (ts *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	ts := newTestServer(t, db)

	routes := [][2]string{{"GET", "/me"}, {"GET", "/me/wardrobe"}, {"GET", "/me/looks"}, {"POST", "/actions/fact"}}
	for _, route := range routes {
		method, target := route[0], route[1]
		req := test.NewJSONRequest(method, target, nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := ts.serve(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}
}

func TestAccountMiddlewareLocksBannedAndDeleted(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	ts := newTestServer(t, db)

	banned := test.FakeUserV2(db, "Banned", "banned@example.com")
	db.Model(banned).Update("banned", true)
	deleted := test.FakeUserV2(db, "Deleted", "deleted@example.com")
	db.Model(deleted).Update("confirmed_delete_date", time.Now())

	for _, user := range []*models.UserAccount{banned, deleted} {
		rec := ts.serve(test.NewJSONAuthRequest("GET", "/me", UIntToStr(user.ID), nil))
		assert.Equal(t, http.StatusLocked, rec.Code, user.Email)
	}

	rec := ts.serve(test.NewJSONAuthRequest("GET", "/me", "987654", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.serve(test.NewJSONAuthRequest("GET", "/me", "not-a-number", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
