package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestGetExitCode(t *testing.T) {
	cases := map[string]int{
		ErrCodeMalformedResponse: ExitMalformedResponse,
		ErrCodeOutputFailed:      ExitOutputFailed,
		ErrCodeInvalidArgument:   ExitInvalidArgument,
		ErrCodeAuthFailed:        ExitAuthFailed,
		"SOMETHING_ELSE":         ExitUnknown,
	}
	for code, want := range cases {
		if got := GetExitCode(code); got != want {
			t.Errorf("GetExitCode(%s) = %d, want %d", code, got, want)
		}
	}
}

func TestExitCodeFor(t *testing.T) {
	if got := ExitCodeFor(nil); got != ExitSuccess {
		t.Fatalf("ExitCodeFor(nil) = %d", got)
	}
	if got := ExitCodeFor(errors.New("boom")); got != ExitUnknown {
		t.Fatalf("ExitCodeFor(plain) = %d", got)
	}

	appErr := WrapAppError(NewCLIError(ErrCodeOutputFailed, "write failed").Build(), fs.ErrPermission)
	wrapped := fmt.Errorf("save report: %w", appErr)
	if got := ExitCodeFor(wrapped); got != ExitOutputFailed {
		t.Fatalf("ExitCodeFor(wrapped) = %d, want %d", got, ExitOutputFailed)
	}
	if !errors.Is(wrapped, fs.ErrPermission) {
		t.Fatalf("cause should be reachable through the AppError")
	}
}

func TestCLIErrorBuilder(t *testing.T) {
	cliErr := NewCLIError(ErrCodeServerError, "500 Server Error").
		WithHTTPStatus(500).
		WithRetryable(true).
		WithContext("url", "http://localhost:8123").
		Build()

	if cliErr.HTTPStatus != 500 || !cliErr.Retryable {
		t.Fatalf("unexpected error: %+v", cliErr)
	}
	if cliErr.Context["url"] != "http://localhost:8123" {
		t.Fatalf("missing context: %+v", cliErr.Context)
	}
	if NewAppError(cliErr).Error() != "SERVER_ERROR: 500 Server Error" {
		t.Fatalf("unexpected message: %s", NewAppError(cliErr).Error())
	}
}
