package service

import (
	"automarket/internal/repository"
	"automarket/internal/testutil"
	"automarket/pkg/security"
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"
)

// recordingNotifier keeps every job instead of sending it
type recordingNotifier struct {
	mu   sync.Mutex
	jobs []VerificationEmailJob
	err  error
}

func (n *recordingNotifier) Enqueue(_ context.Context, job VerificationEmailJob) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}

	n.jobs = append(n.jobs, job)
	return nil
}

func (n *recordingNotifier) sent() []VerificationEmailJob {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]VerificationEmailJob(nil), n.jobs...)
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	mail []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.mail = append(m.mail, sentMail{to, subject, body})
	return nil
}

type testEnv struct {
	db       *gorm.DB
	store    *repository.Store
	notifier *recordingNotifier
	tokens   *security.TokenManager
	users    *UserService
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := testutil.NewTestDB(t)
	store := repository.New(gdb)

	env := &testEnv{
		db:       gdb,
		store:    store,
		notifier: &recordingNotifier{},
		tokens:   security.NewTokenManager("test-secret", "automarket", 5*time.Minute, 24*time.Hour),
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	argon := &security.ArgonHash{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	env.users = NewUserService(store, argon, env.tokens, env.notifier, 48*time.Hour)
	env.users.now = func() time.Time { return env.now }

	return env
}

var testPaging = Paging{DefaultSize: 2, MaxSize: 5}

func ptr[T any](v T) *T {
	return &v
}
