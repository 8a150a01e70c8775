package badger

import (
	"encoding/binary"
	"time"

	"github.com/poiesic/pharmainspect/core"
)

// Key prefixes for different data types
const (
	recordPrefix           = "insrec:"
	recordDatePrefix       = "insrecd:"
	recordCreatedPrefix    = "insrecc:"
	recordSerialSeq        = "insrecseq"
	attachmentPrefix       = "attach:"
	attachmentRecordPrefix = "attachr:"
	notificationPrefix     = "notif:"
	notificationUserPrefix = "notifu:"
	localPrefix            = "local:"
)

// dateLen is the length of a YYYY-MM-DD inspection date.
const dateLen = len(core.DateLayout)

// makeRecordKey generates a key for a record by ID.
func makeRecordKey(id core.ID) []byte {
	return []byte(recordPrefix + string(id))
}

// makeRecordDateKey generates a composite key for the inspection date index.
// Format: prefix date:id
func makeRecordDateKey(date string, id core.ID) []byte {
	return []byte(recordDatePrefix + date + ":" + string(id))
}

// makePartialRecordDateKey generates a partial key for date range queries.
func makePartialRecordDateKey(date string) []byte {
	return []byte(recordDatePrefix + date)
}

// makeRecordCreatedKey generates a composite key for the creation time index.
// Format: prefix timestamp id
func makeRecordCreatedKey(createdAt time.Time, id core.ID) []byte {
	prefixBytes := []byte(recordCreatedPrefix)
	buf := make([]byte, len(prefixBytes)+8+len(id))
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], id)
	return buf
}

// makeAttachmentKey generates a key for an attachment by ID.
func makeAttachmentKey(id core.ID) []byte {
	return []byte(attachmentPrefix + string(id))
}

// appendOwner writes an owner ID behind a 4-byte length. Scanning one owner's
// prefix then never reaches an owner whose ID merely starts with it.
func appendOwner(buf []byte, owner string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(owner)))
	return append(buf, owner...)
}

// makeAttachmentRecordKey links an attachment to its record.
// Format: prefix len(recordID) recordID attachmentID
func makeAttachmentRecordKey(recordID, attachmentID core.ID) []byte {
	return append(makePartialAttachmentRecordKey(recordID), string(attachmentID)...)
}

// makePartialAttachmentRecordKey generates the prefix for one record's attachments.
func makePartialAttachmentRecordKey(recordID core.ID) []byte {
	return appendOwner([]byte(attachmentRecordPrefix), string(recordID))
}

// makeNotificationKey generates a key for a notification by ID.
func makeNotificationKey(id core.ID) []byte {
	return []byte(notificationPrefix + string(id))
}

// makeNotificationUserKey generates a composite key for the per-user index.
// Format: prefix len(userID) userID timestamp id
func makeNotificationUserKey(userID string, createdAt time.Time, id core.ID) []byte {
	buf := makePartialNotificationUserKey(userID)
	buf = binary.BigEndian.AppendUint64(buf, uint64(createdAt.UnixMicro()))
	return append(buf, string(id)...)
}

// makePartialNotificationUserKey generates the prefix for one user's notifications.
func makePartialNotificationUserKey(userID string) []byte {
	return appendOwner([]byte(notificationUserPrefix), userID)
}

// makeLocalKey generates a key for a local store entry.
func makeLocalKey(key string) []byte {
	return []byte(localPrefix + key)
}
