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


package storage

import (
	"fmt"

	"github.com/poiesic/pharmainspect/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	if len(data) == 0 {
		return "", ErrTruncatedData
	}
	id, _, err := core.IDMUS.Unmarshal(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalRecord serializes a Record to bytes.
func MarshalRecord(record *core.Record) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: nil record", ErrSerializationFailed)
	}
	buf := make([]byte, core.RecordMUS.Size(*record))
	core.RecordMUS.Marshal(*record, buf)
	return buf, nil
}

// UnmarshalRecord deserializes a Record from bytes.
func UnmarshalRecord(data []byte) (*core.Record, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	record, _, err := core.RecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalAttachment serializes an Attachment to bytes.
func MarshalAttachment(attachment *core.Attachment) ([]byte, error) {
	if attachment == nil {
		return nil, fmt.Errorf("%w: nil attachment", ErrSerializationFailed)
	}
	buf := make([]byte, core.AttachmentMUS.Size(*attachment))
	core.AttachmentMUS.Marshal(*attachment, buf)
	return buf, nil
}

// UnmarshalAttachment deserializes an Attachment from bytes.
func UnmarshalAttachment(data []byte) (*core.Attachment, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	attachment, _, err := core.AttachmentMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &attachment, nil
}

// MarshalNotification serializes a Notification to bytes.
func MarshalNotification(notification *core.Notification) ([]byte, error) {
	if notification == nil {
		return nil, fmt.Errorf("%w: nil notification", ErrSerializationFailed)
	}
	buf := make([]byte, core.NotificationMUS.Size(*notification))
	core.NotificationMUS.Marshal(*notification, buf)
	return buf, nil
}

// UnmarshalNotification deserializes a Notification from bytes.
func UnmarshalNotification(data []byte) (*core.Notification, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	notification, _, err := core.NotificationMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &notification, nil
}
