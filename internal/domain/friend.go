package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-]{8,20}$`)
)

// Friend represents a person games can be loaned to.
// Friends are soft-deleted so historical loans keep a valid reference.
type Friend struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewFriend creates a friend after validating the contact details.
func NewFriend(name, email, phone string) (*Friend, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}

	now := time.Now()
	return &Friend{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateDetails replaces the friend's contact details in place.
func (f *Friend) UpdateDetails(name, email, phone string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}

	f.Name = name
	f.Email = email
	f.Phone = phone
	f.UpdatedAt = time.Now()
	return nil
}

// Delete marks the friend as removed without destroying the record.
func (f *Friend) Delete(now time.Time) {
	if f.DeletedAt == nil {
		f.DeletedAt = &now
		f.UpdatedAt = now
	}
}

// IsDeleted reports whether the friend has been soft-deleted.
func (f *Friend) IsDeleted() bool {
	return f.DeletedAt != nil
}
