package errors

import "errors"

// Storage errors indicate the embedded database could not serve a request.
var (
	// ErrStorageUnavailable indicates the database could not be opened, is locked, or is full.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotFound indicates no entry exists with the requested id.
	ErrNotFound = errors.New("entry not found")
)

// Payload errors indicate externally supplied data could not be understood.
var (
	// ErrMalformedPayload indicates JSON or an envelope could not be parsed.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrUnsupportedVersion indicates an envelope was written by an unknown format version.
	ErrUnsupportedVersion = errors.New("unsupported envelope version")

	// ErrValidation indicates import data is not a JSON object, or a record
	// handed to storage is not well formed.
	ErrValidation = errors.New("invalid import data")
)

// Cryptographic errors indicate an entry could not be sealed or opened.
var (
	// ErrMissingPassword indicates an empty password was supplied.
	ErrMissingPassword = errors.New("missing password")

	// ErrMissingHint indicates an entry was encrypted without a password hint.
	ErrMissingHint = errors.New("missing password hint")

	// ErrAuthentication indicates the password is wrong or the envelope was tampered with.
	ErrAuthentication = errors.New("wrong password or corrupted data")

	// ErrAlreadyEncrypted indicates the entry is already encrypted.
	ErrAlreadyEncrypted = errors.New("entry is already encrypted")

	// ErrNotEncrypted indicates the entry is not encrypted.
	ErrNotEncrypted = errors.New("entry is not encrypted")

	// ErrEntryEncrypted indicates an operation needs plaintext but the entry is encrypted.
	ErrEntryEncrypted = errors.New("entry is encrypted")
)

// Validation errors indicate an operation received out-of-range input.
var (
	// ErrIndexOutOfRange indicates a recycle index outside the full recycle list.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidSetting indicates a setting value outside its allowed domain.
	ErrInvalidSetting = errors.New("invalid setting value")

	// ErrEmptyDraft indicates the draft has no content worth archiving.
	ErrEmptyDraft = errors.New("draft is empty")
)

// GenericMessage is returned by Message for errors outside the taxonomy.
const GenericMessage = "operation failed"

var messages = []struct {
	err error
	msg string
}{
	{ErrStorageUnavailable, "save failed: storage is unavailable or full"},
	{ErrNotFound, "entry not found"},
	{ErrUnsupportedVersion, "unsupported encrypted data version"},
	{ErrMalformedPayload, "data is not valid JSON"},
	{ErrValidation, "import failed: data format is incorrect"},
	{ErrMissingPassword, "password must not be empty"},
	{ErrMissingHint, "password hint must not be empty"},
	{ErrAuthentication, "wrong password"},
	{ErrAlreadyEncrypted, "entry is already encrypted"},
	{ErrNotEncrypted, "entry is not encrypted"},
	{ErrEntryEncrypted, "entry is encrypted, decrypt it first"},
	{ErrIndexOutOfRange, "no such recycled entry"},
	{ErrInvalidSetting, "invalid setting value"},
	{ErrEmptyDraft, "draft is empty, nothing to archive"},
}

// Message returns a short human-readable status line for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return GenericMessage
}
