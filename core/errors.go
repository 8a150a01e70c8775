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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a Record failed validation.
	ErrInvalidRecord = errors.New("invalid inspection record")

	// ErrInvalidAttachment indicates an Attachment failed validation.
	ErrInvalidAttachment = errors.New("invalid attachment")

	// ErrInvalidNotification indicates a Notification failed validation.
	ErrInvalidNotification = errors.New("invalid notification")

	// ErrInvalidUser indicates a User failed validation.
	ErrInvalidUser = errors.New("invalid user")

	// ErrInvalidNames indicates a names field was neither a string nor an array.
	ErrInvalidNames = errors.New("invalid names value")

	// ErrEmptyInstitutionName indicates the institution name is blank.
	ErrEmptyInstitutionName = errors.New("institution name cannot be empty")

	// ErrInvalidDate indicates a date is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

	// ErrEmptyCreatedBy indicates the creating user is missing.
	ErrEmptyCreatedBy = errors.New("created by cannot be empty")

	// ErrEmptyName indicates a required name field is blank.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyUserID indicates a notification is not addressed to anyone.
	ErrEmptyUserID = errors.New("user id cannot be empty")
)

// ErrMalformedValue indicates an encoded value carries an impossible length.
var ErrMalformedValue = errors.New("malformed encoded value")
