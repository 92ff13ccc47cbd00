package service

import (
	"automarket/internal/repository"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// VerificationEmailJob asks a worker to mail a verification link
type VerificationEmailJob struct {
	UserID   uint   `json:"user_id"`
	Code     string `json:"code"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Notifier hands jobs to a background worker. Enqueue must not block on delivery
type Notifier interface {
	Enqueue(ctx context.Context, job VerificationEmailJob) error
}

// JobHandler processes a single job on a worker
type JobHandler func(ctx context.Context, job VerificationEmailJob) error

// VerificationMail renders and sends verification emails
type VerificationMail struct {
	verifications repository.VerificationRepository
	mailer        Mailer
	linkBase      string
}

func NewVerificationMail(v repository.VerificationRepository, m Mailer, linkBase string) *VerificationMail {
	return &VerificationMail{
		verifications: v,
		mailer:        m,
		linkBase:      strings.TrimRight(linkBase, "/"),
	}
}

// Link returns the API URL that consumes code. linkBase is the server origin
func (v *VerificationMail) Link(code string) string {
	return fmt.Sprintf("%s/api/email-verification/%s/", v.linkBase, code)
}

// Handle is a JobHandler. Codes consumed or replaced since the job was
// queued are skipped without an error
func (v *VerificationMail) Handle(ctx context.Context, job VerificationEmailJob) error {
	rec, err := v.verifications.FindByUserAndCode(ctx, job.UserID, job.Code)
	if err != nil {
		return fmt.Errorf("failed to look up verification code, %w", err)
	}

	if rec == nil {
		zap.L().Debug("Verification code gone, skipping email", zap.Uint("user_id", job.UserID))
		return nil
	}

	subject := fmt.Sprintf("Подтверждение учетной записи для %s", job.Username)
	body := fmt.Sprintf("Для подтверждения учетной записи для %s, перейдите по ссылке: %s", job.Email, v.Link(job.Code))

	if err := v.mailer.Send(ctx, job.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send verification email, %w", err)
	}

	return nil
}
