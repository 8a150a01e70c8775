// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout of inspection dates.
const DateLayout = "2006-01-02"

// ValidateRecord validates a Record according to domain rules.
//
// Validation rules:
//   - InstitutionName must not be blank
//   - Date must parse as YYYY-MM-DD
//   - CreatedBy must not be blank
//
// NOT validated (assigned by storage):
//   - ID, SerialNumber, CreatedAt, UpdatedAt
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if strings.TrimSpace(record.BasicData.InstitutionName) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyInstitutionName)
	}

	if !IsValidDate(record.BasicData.Date) {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrInvalidDate)
	}

	if strings.TrimSpace(record.CreatedBy) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyCreatedBy)
	}

	return nil
}

// ValidateAttachment validates an Attachment.
func ValidateAttachment(attachment *Attachment) error {
	if attachment == nil {
		return fmt.Errorf("%w: attachment is nil", ErrInvalidAttachment)
	}
	if strings.TrimSpace(attachment.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAttachment, ErrEmptyName)
	}
	if attachment.Size < 0 {
		return fmt.Errorf("%w: negative size %d", ErrInvalidAttachment, attachment.Size)
	}
	return nil
}

// ValidateNotification validates a Notification.
func ValidateNotification(notification *Notification) error {
	if notification == nil {
		return fmt.Errorf("%w: notification is nil", ErrInvalidNotification)
	}
	if strings.TrimSpace(notification.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNotification, ErrEmptyName)
	}
	if strings.TrimSpace(notification.UserID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNotification, ErrEmptyUserID)
	}
	return nil
}

// ValidateUser validates a User.
func ValidateUser(user *User) error {
	if user == nil {
		return fmt.Errorf("%w: user is nil", ErrInvalidUser)
	}
	if strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUser, ErrEmptyName)
	}
	return nil
}

// IsValidDate checks that s is a calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
