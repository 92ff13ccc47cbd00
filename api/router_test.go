package api

import (
	"automarket/internal"
	"automarket/internal/model"
	"automarket/internal/repository"
	"automarket/internal/service"
	"automarket/internal/testutil"
	"automarket/pkg/security"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingNotifier struct {
	mu   sync.Mutex
	jobs []service.VerificationEmailJob
}

func (n *recordingNotifier) Enqueue(_ context.Context, job service.VerificationEmailJob) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.jobs = append(n.jobs, job)
	return nil
}

func (n *recordingNotifier) last(t *testing.T) service.VerificationEmailJob {
	t.Helper()

	n.mu.Lock()
	defer n.mu.Unlock()

	require.NotEmpty(t, n.jobs)
	return n.jobs[len(n.jobs)-1]
}

type testServer struct {
	t        *testing.T
	db       *gorm.DB
	router   *gin.Engine
	notifier *recordingNotifier
	tokens   *security.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gdb := testutil.NewTestDB(t)
	testutil.SeedReference(t, gdb)
	store := repository.New(gdb)

	notifier := &recordingNotifier{}
	tokens := security.NewTokenManager("test-secret", "automarket", 5*time.Minute, 24*time.Hour)
	argon := &security.ArgonHash{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	paging := service.Paging{DefaultSize: 2, MaxSize: 100}

	d := &internal.Deps{
		DB:        gdb,
		Users:     service.NewUserService(store, argon, tokens, notifier, 48*time.Hour),
		Listings:  service.NewListingService(store, paging),
		Favorites: service.NewFavoriteService(store, paging),
		Reference: service.NewReferenceService(store),
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := NewEngine(ctx, d, EngineConfig{
		CORSOrigins: []string{"http://localhost:5173"},
		RateLimit:   1000,
		BodyLimit:   1 << 20,
		CacheTTL:    time.Minute,
	})

	return &testServer{t: t, db: gdb, router: router, notifier: notifier, tokens: tokens}
}

type response struct {
	code int
	body map[string]any
	raw  []byte
}

func (s *testServer) do(method, path, token string, body any) response {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	res := response{code: rec.Code, raw: rec.Body.Bytes()}
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &res.body))
	}

	return res
}

// verifiedToken creates a verified user directly and returns an access token for it
func (s *testServer) verifiedToken(username string) (*model.User, string) {
	s.t.Helper()

	u := testutil.CreateUser(s.t, s.db, username, true)
	token, err := s.tokens.Issue(u.ID, security.AccessToken)
	require.NoError(s.t, err)

	return u, token
}

func listingBody(title string) map[string]any {
	return map[string]any{
		"title":         title,
		"description":   "One owner, garage kept",
		"price":         "25000.00",
		"model":         "Camry",
		"year":          2018,
		"mileage":       45000,
		"engine_type":   "Petrol",
		"transmission":  "Automatic",
		"body_type":     "Sedan",
		"color":         "White",
		"brand_name":    "Toyota",
		"location_name": "Almaty",
		"insurance_information": map[string]any{
			"insurance_start_date": "2025-01-01",
			"insurance_end_date":   "2026-01-01",
			"owner_count":          1,
			"accident_count":       0,
		},
		"images": []map[string]any{{"image_url": "https://img.example.com/1.jpg"}},
	}
}

func TestHeartbeat(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(http.MethodHead, "/api/heartbeat", "", nil).code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/heartbeat", "", nil).code)
}

func TestRegistrationFlow(t *testing.T) {
	s := newTestServer(t)

	res := s.do(http.MethodPost, "/api/register/", "", map[string]any{
		"username": "john",
		"email":    "john@example.com",
		"password": "s3cure-pass",
	})
	require.Equal(t, http.StatusCreated, res.code, string(res.raw))
	assert.Equal(t, "User created successfully. Please verify your email.", res.body["detail"])

	res = s.do(http.MethodPost, "/api/register/", "", map[string]any{
		"username": "john",
		"email":    "other@example.com",
		"password": "s3cure-pass",
	})
	require.Equal(t, http.StatusBadRequest, res.code)
	assert.Contains(t, res.body["fields"], "username")
	assert.NotEmpty(t, res.body["requestID"])

	login := map[string]any{"username": "john", "password": "s3cure-pass"}

	res = s.do(http.MethodPost, "/api/login/", "", login)
	require.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, "account_not_verified", res.body["code"])
	assert.NotContains(t, res.body, "access")

	res = s.do(http.MethodPost, "/api/login/", "", map[string]any{"username": "john", "password": "wrong-pass"})
	require.Equal(t, http.StatusUnauthorized, res.code)
	assert.Equal(t, "invalid_credentials", res.body["code"])

	code := s.notifier.last(t).Code

	res = s.do(http.MethodPost, "/api/email-verification/"+code+"/", "", nil)
	require.Equal(t, http.StatusOK, res.code, string(res.raw))
	assert.Equal(t, "Email verified successfully.", res.body["detail"])

	res = s.do(http.MethodPost, "/api/email-verification/"+code+"/", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.code)

	res = s.do(http.MethodPost, "/api/login/", "", login)
	require.Equal(t, http.StatusOK, res.code)
	access, _ := res.body["access"].(string)
	refresh, _ := res.body["refresh"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	res = s.do(http.MethodGet, "/api/profile/", access, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "john", res.body["username"])
	assert.Equal(t, true, res.body["is_verified"])

	res = s.do(http.MethodGet, "/api/profile/", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, res.code, "refresh tokens can't be used as access tokens")

	res = s.do(http.MethodPost, "/api/token/refresh/", "", map[string]any{"refresh": refresh})
	require.Equal(t, http.StatusOK, res.code)
	assert.NotEmpty(t, res.body["access"])

	res = s.do(http.MethodPatch, "/api/profile/", access, map[string]any{"first_name": "Johnny"})
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "Johnny", res.body["first_name"])
	assert.Equal(t, "john@example.com", res.body["email"])
}

func TestVerificationLinkReachesAPI(t *testing.T) {
	s := newTestServer(t)

	res := s.do(http.MethodPost, "/api/register/", "", map[string]any{
		"username": "john",
		"email":    "john@example.com",
		"password": "s3cure-pass",
	})
	require.Equal(t, http.StatusCreated, res.code, string(res.raw))

	mail := service.NewVerificationMail(repository.New(s.db).Verifications, service.LogMailer{}, "http://localhost:8080/")
	link, err := url.Parse(mail.Link(s.notifier.last(t).Code))
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", link.Host)

	res = s.do(http.MethodPost, link.Path, "", nil)
	require.Equal(t, http.StatusOK, res.code, link.Path)
	assert.Equal(t, "Email verified successfully.", res.body["detail"])
}

func TestResendVerification(t *testing.T) {
	s := newTestServer(t)

	res := s.do(http.MethodPost, "/api/email-verification/resend/", "", map[string]any{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusAccepted, res.code)

	res = s.do(http.MethodPost, "/api/email-verification/resend/", "", map[string]any{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, res.code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/profile/", "/api/listings/mine/", "/api/favorites/", "/api/listings/1/"} {
		res := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, res.code, path)
	}
}

func TestListingLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, seller := s.verifiedToken("seller")
	_, buyer := s.verifiedToken("buyer")

	res := s.do(http.MethodPost, "/api/listings/create/", seller, listingBody("Camry 2018"))
	require.Equal(t, http.StatusCreated, res.code, string(res.raw))
	assert.Equal(t, "Toyota", res.body["brand_name"])
	assert.Equal(t, "25000.00", res.body["price"])
	id := int(res.body["id"].(float64))
	path := "/api/listings/" + strconv.Itoa(id) + "/"

	bad := listingBody("Mystery")
	bad["brand_name"] = "Lada"
	res = s.do(http.MethodPost, "/api/listings/create/", seller, bad)
	require.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, map[string]any{"brand_name": "Brand with name 'Lada' does not exist."}, res.body["fields"])

	res = s.do(http.MethodGet, "/api/listings/", "", nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.EqualValues(t, 1, res.body["count"])
	assert.Nil(t, res.body["next"])
	assert.Nil(t, res.body["previous"])
	results := res.body["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "https://img.example.com/1.jpg", results[0].(map[string]any)["first_image_url"])

	res = s.do(http.MethodPatch, path, buyer, map[string]any{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, res.code)

	res = s.do(http.MethodPatch, path, seller, map[string]any{"title": "Camry 2018, new tyres"})
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "Camry 2018, new tyres", res.body["title"])

	res = s.do(http.MethodPost, path+"hide/", buyer, nil)
	require.Equal(t, http.StatusNotFound, res.code)
	assert.Equal(t, "Car listing not found or you do not have permission to hide it.", res.body["error"])

	res = s.do(http.MethodPost, path+"hide/", seller, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "Car listing is now hidden.", res.body["detail"])

	res = s.do(http.MethodGet, "/api/listings/", "", nil)
	assert.EqualValues(t, 0, res.body["count"])

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, buyer, nil).code)

	res = s.do(http.MethodGet, path, seller, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, true, res.body["is_hidden"])

	res = s.do(http.MethodGet, "/api/listings/mine/", seller, nil)
	assert.EqualValues(t, 1, res.body["count"])

	res = s.do(http.MethodPost, path+"show/", seller, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "Car listing is now visible.", res.body["detail"])

	res = s.do(http.MethodDelete, path, seller, nil)
	require.Equal(t, http.StatusForbidden, res.code)
	assert.Equal(t, "Please provide confirm=True to delete this listing.", res.body["error"])

	res = s.do(http.MethodDelete, path+"?confirm=True", buyer, nil)
	assert.Equal(t, http.StatusForbidden, res.code)

	res = s.do(http.MethodDelete, path+"?confirm=True", seller, nil)
	assert.Equal(t, http.StatusNoContent, res.code)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, seller, nil).code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/listings/abc/", seller, nil).code)
}

func TestListingPagination(t *testing.T) {
	s := newTestServer(t)
	_, seller := s.verifiedToken("seller")

	for _, title := range []string{"a", "b", "c"} {
		res := s.do(http.MethodPost, "/api/listings/create/", seller, listingBody(title))
		require.Equal(t, http.StatusCreated, res.code)
	}

	res := s.do(http.MethodGet, "/api/listings/?brand=Toyota", "", nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.EqualValues(t, 3, res.body["count"])
	assert.Len(t, res.body["results"], 2)
	assert.Equal(t, "http://example.com/api/listings/?brand=Toyota&page=2", res.body["next"])
	assert.Nil(t, res.body["previous"])

	res = s.do(http.MethodGet, "/api/listings/?brand=Toyota&page=2", "", nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.Len(t, res.body["results"], 1)
	assert.Nil(t, res.body["next"])
	assert.Equal(t, "http://example.com/api/listings/?brand=Toyota", res.body["previous"])

	for _, page := range []string{"3", "0", "x"} {
		res = s.do(http.MethodGet, "/api/listings/?page="+page, "", nil)
		require.Equal(t, http.StatusNotFound, res.code, page)
		assert.Equal(t, "Invalid page.", res.body["error"])
	}

	res = s.do(http.MethodGet, "/api/listings/?is_sold=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.code)
}

func TestFavorites(t *testing.T) {
	s := newTestServer(t)
	seller, _ := s.verifiedToken("seller")
	_, buyer := s.verifiedToken("buyer")
	l := testutil.CreateListing(t, s.db, seller, "camry", 1)
	id := strconv.Itoa(int(l.ID))

	res := s.do(http.MethodPost, "/api/favorites/add/"+id+"/", buyer, nil)
	require.Equal(t, http.StatusCreated, res.code)
	assert.Equal(t, "Added to favorites.", res.body["detail"])

	res = s.do(http.MethodPost, "/api/favorites/add/"+id+"/", buyer, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "Already in favorites.", res.body["detail"])

	res = s.do(http.MethodGet, "/api/favorites/", buyer, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.EqualValues(t, 1, res.body["count"])

	res = s.do(http.MethodPost, "/api/favorites/add/999/", buyer, nil)
	require.Equal(t, http.StatusNotFound, res.code)
	assert.Equal(t, "Car listing not found.", res.body["error"])

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPost, "/api/favorites/remove/"+id+"/", buyer, nil).code)

	res = s.do(http.MethodPost, "/api/favorites/remove/"+id+"/", buyer, nil)
	require.Equal(t, http.StatusNotFound, res.code)
	assert.Equal(t, "Not in favorites.", res.body["error"])
}

func TestDeleteProfile(t *testing.T) {
	s := newTestServer(t)
	seller, token := s.verifiedToken("seller")
	testutil.CreateListing(t, s.db, seller, "camry", 2)

	res := s.do(http.MethodDelete, "/api/profile/delete/", token, nil)
	require.Equal(t, http.StatusBadRequest, res.code)

	res = s.do(http.MethodDelete, "/api/profile/delete/", token, map[string]any{"confirm": true})
	require.Equal(t, http.StatusNoContent, res.code)

	var n int64
	require.NoError(t, s.db.Model(&model.CarListing{}).Count(&n).Error)
	assert.Zero(t, n)

	res = s.do(http.MethodGet, "/api/profile/", token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.code, "tokens of deleted users stop working")
}

func TestDeleteProfileChunkedBody(t *testing.T) {
	s := newTestServer(t)
	_, token := s.verifiedToken("seller")

	send := func(body string) int {
		req := httptest.NewRequest(http.MethodDelete, "/api/profile/delete/", io.NopCloser(strings.NewReader(body)))
		req.ContentLength = -1
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		return rec.Code
	}

	assert.Equal(t, http.StatusBadRequest, send(""), "an empty body doesn't confirm")
	assert.Equal(t, http.StatusBadRequest, send(`{"confirm": false}`))
	assert.Equal(t, http.StatusNoContent, send(`{"confirm": true}`))
}

func TestReference(t *testing.T) {
	s := newTestServer(t)

	res := s.do(http.MethodGet, "/api/brands/", "", nil)
	require.Equal(t, http.StatusOK, res.code)

	var brands []model.Brand
	require.NoError(t, json.Unmarshal(res.raw, &brands))
	require.Len(t, brands, 1)
	assert.Equal(t, "Toyota", brands[0].Name)

	res = s.do(http.MethodGet, "/api/locations/", "", nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.Contains(t, string(res.raw), "Almaty")
}
