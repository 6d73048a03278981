// Package contact persists contact-form submissions.
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrInvalidSubmission indicates a submission missing required fields.
	ErrInvalidSubmission = errors.New("contact: invalid submission")
	// ErrStoreFailure indicates the submission could not be persisted.
	ErrStoreFailure = errors.New("contact: store failure")
)

// Submission models one contact-form entry.
type Submission struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:name;size:320;not null"`
	Organization *string   `gorm:"column:org;size:320"`
	Email        string    `gorm:"column:email;size:320;not null"`
	Subject      *string   `gorm:"column:subject;size:512"`
	Message      *string   `gorm:"column:message;type:text"`
	SendCopy     bool      `gorm:"column:send_copy;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

// TableName provides the explicit table binding for GORM.
func (Submission) TableName() string {
	return "contact_submissions"
}

// ServiceConfig describes the dependencies for the contact service.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Service stores contact-form submissions.
type Service struct {
	db     *gorm.DB
	now    func() time.Time
	logger *zap.Logger
}

// NewService constructs the contact service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("contact: database connection required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: cfg.Database, now: clock, logger: logger}, nil
}

// SubmitInput carries the contact-form fields.
type SubmitInput struct {
	Name         string
	Organization *string
	Email        string
	Subject      *string
	Message      *string
	SendCopy     bool
}

// Submit validates and persists one submission, returning the stored row.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (Submission, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Submission{}, fmt.Errorf("%w: name is required", ErrInvalidSubmission)
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return Submission{}, fmt.Errorf("%w: valid email is required", ErrInvalidSubmission)
	}

	submission := Submission{
		Name:         strings.TrimSpace(input.Name),
		Organization: input.Organization,
		Email:        email,
		Subject:      input.Subject,
		Message:      input.Message,
		SendCopy:     input.SendCopy,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&submission).Error; err != nil {
		s.logger.Error("contact submission insert failed", zap.Error(err))
		return Submission{}, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	s.logger.Info("contact submission saved",
		zap.Int64("submission_id", submission.ID),
		zap.Bool("send_copy", submission.SendCopy))
	return submission, nil
}
