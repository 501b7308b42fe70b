package tools

// Status indicates the outcome of a tool operation.
type Status string

// Tool operation statuses.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Error codes returned to the calling agent. These are stable tags: clients
// branch on the code, never on the message text.
const (
	// ErrCodePathEscape - the requested path resolves outside the root boundary.
	ErrCodePathEscape = "PATH_ESCAPE"
	// ErrCodeNotFound - no filesystem object exists at the resolved path.
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeNotADirectory - a directory was required but the target is not one.
	ErrCodeNotADirectory = "NOT_A_DIRECTORY"
	// ErrCodeNotAFile - a regular file was required but the target is not one.
	ErrCodeNotAFile = "NOT_A_FILE"
	// ErrCodeBinaryFile - the target file contains binary content.
	ErrCodeBinaryFile = "BINARY_FILE"
	// ErrCodeIO - an underlying filesystem operation failed.
	ErrCodeIO = "IO_ERROR"
)

// Error is the structured error carried inside a Result.
// It allows tools to return specific error codes and messages that the
// calling agent can understand and act on.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil tool error>"
	}
	if e.Code == "" {
		return e.Message
	}
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// Result is the envelope every tool operation returns. A tool-level failure
// is data, not a Go error: it sets Status to StatusError and fills Error so
// the dispatch layer can surface it to the agent without crashing the server.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// errorResult builds an error Result with the given code and message.
func errorResult(code, message string) Result {
	return Result{
		Status:  StatusError,
		Message: message,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	}
}
