package apperror

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoData          = Error("no records found")
	ErrMultipleRecords = Error("multiple records found")
	ErrGuest           = Error("user is guest")
	ErrDenied          = Error("not allowed") // eg. upd/del not allowed
	ErrSectionNotEmpty = Error("section still has children, links or items")
	ErrItemClosed      = Error("item is already closed")
	ErrNotOwner        = Error("item belongs to another user")
	ErrRecordChanged   = Error("write conflict")
)
