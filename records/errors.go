package records

import "errors"

// User-facing failure messages.
const (
	MsgLoadFailed   = "فشل في تحميل السجلات"
	MsgSaveFailed   = "فشل في حفظ السجل"
	MsgUpdateFailed = "فشل في تحديث السجل"
	MsgDeleteFailed = "فشل في حذف السجل"
	MsgSearchFailed = "فشل في البحث"
)

var (
	// ErrRecordStoreRequired is returned when a record store is not provided.
	ErrRecordStoreRequired = errors.New("record store required")

	// ErrMissingID is returned before any remote call when an operation
	// needs a record id and none was given.
	ErrMissingID = errors.New("record id is required")
)

// Failure is a failed remote operation. Message is shown to the user; Err is
// the cause, kept for logging.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Message
	}
	return f.Message + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}
