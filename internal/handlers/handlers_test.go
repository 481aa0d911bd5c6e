package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"Camp/internal/app"
	"Camp/internal/auth"
	dom "Camp/internal/domain"
	"Camp/internal/handlers"
	"Camp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]string{}} }

func (f *fakeKV) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeKV) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeKV) GetDel(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	delete(f.data, key)
	return redis.NewStringResult(v, nil)
}

func (f *fakeKV) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type memUserRepo struct {
	mu    sync.Mutex
	seq   int64
	users map[string]dom.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[string]dom.User{}} }

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *memUserRepo) Create(_ context.Context, username, email, passwordHash string) (dom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; ok {
		return dom.User{}, &pgconn.PgError{Code: "23505"}
	}
	for _, u := range m.users {
		if u.Email == email {
			return dom.User{}, &pgconn.PgError{Code: "23505"}
		}
	}
	m.seq++
	u := dom.User{ID: m.seq, Username: username, Email: email, PasswordHash: passwordHash}
	m.users[username] = u
	return u, nil
}

func (m *memUserRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// memStore mirrors the SQL schema's FK + projection semantics in memory.
type memStore struct {
	mu      sync.Mutex
	seq     int64
	camps   map[int64]dom.Campground
	reviews map[int64]dom.Review
}

func newMemStore() *memStore {
	return &memStore{camps: map[int64]dom.Campground{}, reviews: map[int64]dom.Review{}}
}

func (m *memStore) next() int64 {
	m.seq++
	return m.seq
}

func (m *memStore) reviewIDs(campgroundID int64) []int64 {
	ids := []int64{}
	for id, rv := range m.reviews {
		if rv.CampgroundID == campgroundID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *memStore) Create(_ context.Context, c dom.Campground) (dom.Campground, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.next()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	m.camps[c.ID] = c
	c.ReviewIDs = []int64{}
	return c, nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (dom.Campground, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.camps[id]
	if !ok {
		return dom.Campground{}, pgx.ErrNoRows
	}
	c.ReviewIDs = m.reviewIDs(id)
	return c, nil
}

func (m *memStore) List(_ context.Context) ([]dom.Campground, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []dom.Campground
	for id, c := range m.camps {
		c.ReviewIDs = m.reviewIDs(id)
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *memStore) Update(_ context.Context, id int64, patch dom.Campground) (dom.Campground, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.camps[id]
	if !ok {
		return dom.Campground{}, pgx.ErrNoRows
	}
	c.Title = patch.Title
	c.Image = patch.Image
	c.Price = patch.Price
	c.UpdatedAt = time.Now().UTC()
	m.camps[id] = c
	c.ReviewIDs = m.reviewIDs(id)
	return c, nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.camps[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.camps, id)
	for rid, rv := range m.reviews {
		if rv.CampgroundID == id {
			delete(m.reviews, rid)
		}
	}
	return nil
}

func (m *memStore) ListByCampground(_ context.Context, campgroundID int64) ([]dom.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []dom.Review
	for _, rv := range m.reviews {
		if rv.CampgroundID == campgroundID {
			list = append(list, rv)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *memStore) CreateUnderParent(_ context.Context, campgroundID int64, body string, rating int) (dom.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.camps[campgroundID]; !ok {
		return dom.Review{}, pgx.ErrNoRows
	}
	rv := dom.Review{ID: m.next(), Body: body, Rating: rating, CampgroundID: campgroundID, CreatedAt: time.Now().UTC()}
	m.reviews[rv.ID] = rv
	return rv, nil
}

func (m *memStore) DeleteFromParent(_ context.Context, campgroundID, reviewID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.camps[campgroundID]; !ok {
		return pgx.ErrNoRows
	}
	rv, ok := m.reviews[reviewID]
	if ok && rv.CampgroundID == campgroundID {
		delete(m.reviews, reviewID)
	}
	return nil
}

func (m *memStore) counts() (camps, reviews int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.camps), len(m.reviews)
}

// --- harness ---

type testEnv struct {
	r     *gin.Engine
	users *memUserRepo
	store *memStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	kv := newFakeKV()
	sessions := auth.NewStore(kv, "test-secret", time.Hour)
	flashes := auth.NewFlashes(kv)
	renderer := handlers.NewErrorRenderer(flashes, false)
	r.Use(renderer.Middleware())
	r.NoRoute(renderer.NoRoute())

	guard := auth.RequireSession(sessions, "session_id")

	users := newMemUserRepo()
	userSvc := service.NewUserService(users)
	strategy := auth.NewPasswordStrategy(users)
	cookie := handlers.SessionCookie{Name: "session_id", MaxAge: 3600}
	app.RegisterAuthRoutes(r, guard, handlers.NewAuthHandler(sessions, flashes, strategy, userSvc, cookie))

	store := newMemStore()
	campSvc := service.NewCampgroundService(store, store, nil)
	app.RegisterCampgroundRoutes(r, guard, handlers.NewCampgroundHandler(campSvc))

	return &testEnv{r: r, users: users, store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.r.ServeHTTP(rec, req)
	return rec
}

func cookieNamed(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name && c.Value != "" {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func (e *testEnv) registerAndLogin(t *testing.T, username, email, password string) *http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/register", gin.H{"username": username, "email": email, "password": password})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = e.do(t, http.MethodPost, "/login", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/campgrounds", rec.Header().Get("Location"))
	return cookieNamed(t, rec, "session_id")
}

// --- tests ---

func TestGuard_RedirectsToLoginWithOneTimeNotice(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/campgrounds", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	flash := cookieNamed(t, rec, "flash_id")

	rec = env.do(t, http.MethodGet, "/login", nil, flash)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "you must be signed in first", decodeJSON(t, rec)["flash"])

	// The notice is readable exactly once.
	rec = env.do(t, http.MethodGet, "/login", nil, flash)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", decodeJSON(t, rec)["flash"])
}

func TestGuard_NoMutationWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/campgrounds", gin.H{"title": "Lakeview", "image": "img.jpg", "price": 20})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	camps, reviews := env.store.counts()
	assert.Zero(t, camps)
	assert.Zero(t, reviews)
}

func TestRegister_Duplicate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/register", gin.H{"username": "alice", "email": "a@x.com", "password": "pw123"})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.do(t, http.MethodPost, "/register", gin.H{"username": "alice", "email": "b@x.com", "password": "pw999"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "username or email already taken", decodeJSON(t, rec)["error"])
	assert.Equal(t, 1, env.users.count(), "no new user may be created")
}

func TestRegister_ValidationListsEveryField(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/register", gin.H{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	msg := decodeJSON(t, rec)["error"].(string)
	assert.Contains(t, msg, "username is required")
	assert.Contains(t, msg, "email is required")
	assert.Contains(t, msg, "password is required")
	assert.Zero(t, env.users.count())
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/register", gin.H{"username": "alice", "email": "a@x.com", "password": "pw123"})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	wrongPass := env.do(t, http.MethodPost, "/login", gin.H{"username": "alice", "password": "nope"})
	unknownUser := env.do(t, http.MethodPost, "/login", gin.H{"username": "bob", "password": "pw123"})

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.Equal(t, wrongPass.Body.String(), unknownUser.Body.String())
}

func TestCampgroundValidation_ListsEveryField(t *testing.T) {
	env := newTestEnv(t)
	session := env.registerAndLogin(t, "alice", "a@x.com", "pw123")

	rec := env.do(t, http.MethodPost, "/campgrounds", gin.H{"image": "img.jpg", "price": -5}, session)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	msg := decodeJSON(t, rec)["error"].(string)
	assert.Contains(t, msg, "title is required")
	assert.Contains(t, msg, "price must be at least 0")

	camps, _ := env.store.counts()
	assert.Zero(t, camps, "no campground may be persisted")
}

func TestScenario_EndToEnd(t *testing.T) {
	env := newTestEnv(t)

	// register alice; duplicate username must fail
	rec := env.do(t, http.MethodPost, "/register", gin.H{"username": "alice", "email": "a@x.com", "password": "pw123"})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = env.do(t, http.MethodPost, "/register", gin.H{"username": "alice", "email": "b@x.com", "password": "pw999"})
	require.Equal(t, http.StatusConflict, rec.Code)

	// login
	rec = env.do(t, http.MethodPost, "/login", gin.H{"username": "alice", "password": "pw123"})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	session := cookieNamed(t, rec, "session_id")

	// create campground
	rec = env.do(t, http.MethodPost, "/campgrounds", gin.H{"title": "Lakeview", "image": "img.jpg", "price": 20}, session)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	detail := rec.Header().Get("Location")
	require.Equal(t, "/campgrounds/1", detail)

	rec = env.do(t, http.MethodGet, detail, nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, "Lakeview", body["title"])
	assert.Empty(t, body["review_ids"])

	// attach review
	rec = env.do(t, http.MethodPost, detail+"/reviews", gin.H{"body": "Nice", "rating": 5}, session)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.do(t, http.MethodGet, detail, nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeJSON(t, rec)
	require.Len(t, body["review_ids"], 1)
	require.Len(t, body["reviews"], 1)

	// delete campground; review must not survive
	rec = env.do(t, http.MethodDelete, detail, nil, session)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/campgrounds", rec.Header().Get("Location"))

	rec = env.do(t, http.MethodGet, detail, nil, session)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	_, reviews := env.store.counts()
	assert.Zero(t, reviews, "no orphan reviews may remain")
}

func TestDeleteReview_IdempotentOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	session := env.registerAndLogin(t, "alice", "a@x.com", "pw123")

	rec := env.do(t, http.MethodPost, "/campgrounds", gin.H{"title": "Lakeview", "image": "img.jpg", "price": 20}, session)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = env.do(t, http.MethodPost, "/campgrounds/1/reviews", gin.H{"body": "Nice", "rating": 5}, session)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.do(t, http.MethodGet, "/campgrounds/1", nil, session)
	body := decodeJSON(t, rec)
	require.Len(t, body["review_ids"], 1)
	reviewID := int64(body["review_ids"].([]any)[0].(float64))
	path := fmt.Sprintf("/campgrounds/1/reviews/%d", reviewID)

	rec = env.do(t, http.MethodDelete, path, nil, session)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	rec = env.do(t, http.MethodDelete, path, nil, session)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.do(t, http.MethodGet, "/campgrounds/1", nil, session)
	assert.Empty(t, decodeJSON(t, rec)["review_ids"])
}

func TestUpdateCampground(t *testing.T) {
	env := newTestEnv(t)
	session := env.registerAndLogin(t, "alice", "a@x.com", "pw123")

	rec := env.do(t, http.MethodPost, "/campgrounds", gin.H{"title": "Lakeview", "image": "img.jpg", "price": 20}, session)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.do(t, http.MethodPut, "/campgrounds/1", gin.H{"title": "Lakeview South", "image": "img2.jpg", "price": 25}, session)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/campgrounds/1", rec.Header().Get("Location"))

	rec = env.do(t, http.MethodGet, "/campgrounds/1", nil, session)
	body := decodeJSON(t, rec)
	assert.Equal(t, "Lakeview South", body["title"])
	assert.Equal(t, 25.0, body["price"])
}

func TestLogout_InvalidatesSession(t *testing.T) {
	env := newTestEnv(t)
	session := env.registerAndLogin(t, "alice", "a@x.com", "pw123")

	rec := env.do(t, http.MethodPost, "/logout", nil, session)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = env.do(t, http.MethodGet, "/campgrounds", nil, session)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestNoRoute_TypedNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/definitely/not/here", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "page not found", decodeJSON(t, rec)["error"])
}
