package tools

import "testing"

func TestErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{name: "nil", err: nil, want: "<nil tool error>"},
		{name: "code and message", err: &Error{Code: ErrCodeNotFound, Message: "gone"}, want: "NOT_FOUND: gone"},
		{name: "code only", err: &Error{Code: ErrCodeIO}, want: "IO_ERROR"},
		{name: "message only", err: &Error{Message: "boom"}, want: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorResult(t *testing.T) {
	res := errorResult(ErrCodePathEscape, "denied")

	if res.Status != StatusError {
		t.Errorf("status = %q, want %q", res.Status, StatusError)
	}
	if res.Error == nil || res.Error.Code != ErrCodePathEscape {
		t.Errorf("error = %v, want code %s", res.Error, ErrCodePathEscape)
	}
	if res.Message != "denied" {
		t.Errorf("message = %q, want %q", res.Message, "denied")
	}
}
