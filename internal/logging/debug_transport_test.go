package logging

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDebugTransport_LogsWithoutCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := NewConsoleLogger(ConsoleLoggerConfig{Writer: &buf, Level: DEBUG})
	client := &http.Client{Transport: NewDebugTransport(nil, logger)}

	req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader("select 1"))
	if err != nil {
		t.Fatal(err)
	}
	req.SetBasicAuth("default", "hunter2")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	resp.Body.Close()

	out := buf.String()
	if !strings.Contains(out, "HTTP request") || !strings.Contains(out, "status=418") {
		t.Errorf("unexpected log output: %q", out)
	}
	if strings.Contains(out, "hunter2") {
		t.Errorf("credentials leaked: %q", out)
	}
}
