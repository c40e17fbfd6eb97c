package importer

// Kind classifies import failures. All of them are user-facing and none is
// retried automatically.
type Kind string

const (
	ErrFileUnreadable  Kind = "FILE_UNREADABLE"
	ErrHeaderNotFound  Kind = "HEADER_NOT_FOUND"
	ErrColumnsUnmapped Kind = "REQUIRED_COLUMNS_UNMAPPED"
	ErrAllDuplicates   Kind = "ALL_ROWS_DUPLICATE"
	ErrWriteFailed     Kind = "BATCH_WRITE_FAILED"
)

// Error carries a diagnostic message meant for the end user, not a raw
// exception.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}
