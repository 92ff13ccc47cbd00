package service

import (
	"automarket/internal/model"
	"automarket/internal/testutil"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueCode(t *testing.T, env *testEnv, u *model.User) *model.EmailVerification {
	t.Helper()

	code, err := env.users.issueCode(context.Background(), env.store, u.ID)
	require.NoError(t, err)

	return code
}

func TestVerificationMailHandle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	mailer := &fakeMailer{}
	vm := NewVerificationMail(env.store.Verifications, mailer, "https://automarket.kz/")

	u := testutil.CreateUser(t, env.db, "john", false)
	code := issueCode(t, env, u)

	job := VerificationEmailJob{UserID: u.ID, Code: code.Code, Email: u.Email, Username: u.Username}
	require.NoError(t, vm.Handle(ctx, job))

	require.Len(t, mailer.mail, 1)
	assert.Equal(t, "john@example.com", mailer.mail[0].to)
	assert.Equal(t, "Подтверждение учетной записи для john", mailer.mail[0].subject)
	assert.Contains(t, mailer.mail[0].body, "https://automarket.kz/api/email-verification/"+code.Code+"/")

	// a replaced code is not mailed
	issueCode(t, env, u)
	require.NoError(t, vm.Handle(ctx, job))
	assert.Len(t, mailer.mail, 1)

	mailer.err = errors.New("smtp down")
	fresh := issueCode(t, env, u)
	job.Code = fresh.Code
	assert.Error(t, vm.Handle(ctx, job))
}

func TestWorkerPool(t *testing.T) {
	var mu sync.Mutex
	var seen []uint

	pool := NewWorkerPool(2, 10, func(_ context.Context, job VerificationEmailJob) error {
		mu.Lock()
		defer mu.Unlock()

		seen = append(seen, job.UserID)
		if job.UserID == 2 {
			return errors.New("failed")
		}

		return nil
	})
	pool.StartWorkerPool(context.Background())

	for i := uint(1); i <= 3; i++ {
		require.NoError(t, pool.Enqueue(context.Background(), VerificationEmailJob{UserID: i}))
	}

	pool.Close()

	assert.ElementsMatch(t, []uint{1, 2, 3}, seen, "a failing job doesn't stop the others")
	assert.Zero(t, pool.Running())
	assert.ErrorIs(t, pool.Enqueue(context.Background(), VerificationEmailJob{}), ErrQueueClosed)

	pool.Close()
}

func TestWorkerPoolFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)

	pool := NewWorkerPool(1, 1, func(context.Context, VerificationEmailJob) error {
		started <- struct{}{}
		<-release
		return nil
	})
	pool.StartWorkerPool(context.Background())

	require.NoError(t, pool.Enqueue(context.Background(), VerificationEmailJob{UserID: 1}))
	<-started
	assert.Equal(t, 1, pool.Running())

	require.NoError(t, pool.Enqueue(context.Background(), VerificationEmailJob{UserID: 2}))
	assert.ErrorIs(t, pool.Enqueue(context.Background(), VerificationEmailJob{UserID: 3}), ErrQueueFull)

	close(release)
	pool.Close()
}

func TestAsynqProcess(t *testing.T) {
	var got VerificationEmailJob
	q := &AsynqQueue{handle: func(_ context.Context, job VerificationEmailJob) error {
		got = job
		return errors.New("smtp down")
	}}

	job := VerificationEmailJob{UserID: 7, Code: "c", Email: "a@b.c", Username: "a"}
	payload, err := json.Marshal(job)
	require.NoError(t, err)

	err = q.process(context.Background(), asynq.NewTask(TypeVerificationEmail, payload))
	assert.NoError(t, err, "delivery errors are never retried")
	assert.Equal(t, job, got)

	err = q.process(context.Background(), asynq.NewTask(TypeVerificationEmail, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestCleanupVerifications(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.CreateUser(t, env.db, "john", false)
	issueCode(t, env, u)

	assert.Zero(t, CleanupVerifications(context.Background(), env.store.Verifications, env.now))
	assert.EqualValues(t, 1, CleanupVerifications(context.Background(), env.store.Verifications, env.now.Add(49*time.Hour)))
}

func TestVerificationCleanupStops(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.CreateUser(t, env.db, "john", false)
	issueCode(t, env, u)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		VerificationCleanup(ctx, 10*time.Millisecond, env.store.Verifications, func() time.Time {
			return env.now.Add(72 * time.Hour)
		})
		close(done)
	}()

	assert.Eventually(t, func() bool {
		var n int64
		env.db.Model(&model.EmailVerification{}).Count(&n)
		return n == 0
	}, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop")
	}
}

func TestCleanupAccounts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	verified := testutil.CreateUser(t, env.db, "verified", true)
	stale := testutil.CreateUser(t, env.db, "stale", false)
	issueCode(t, env, stale)
	require.NoError(t, env.db.Create(&model.ResendRequest{UserID: stale.ID}).Error)

	assert.Zero(t, CleanupAccounts(ctx, env.store.Users, time.Now().Add(-time.Hour)))
	assert.EqualValues(t, 1, CleanupAccounts(ctx, env.store.Users, time.Now().Add(time.Hour)))

	got, err := env.store.Users.FindByID(ctx, verified.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	got, err = env.store.Users.FindByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, m := range []any{&model.EmailVerification{}, &model.ResendRequest{}} {
		var n int64
		require.NoError(t, env.db.Model(m).Count(&n).Error)
		assert.Zero(t, n, "%T", m)
	}
}

func TestAccountCleanupStops(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "stale", false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		AccountCleanup(ctx, 10*time.Millisecond, time.Hour, env.store.Users, func() time.Time {
			return time.Now().Add(2 * time.Hour)
		})
		close(done)
	}()

	assert.Eventually(t, func() bool {
		var n int64
		env.db.Model(&model.User{}).Count(&n)
		return n == 0
	}, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop")
	}
}
