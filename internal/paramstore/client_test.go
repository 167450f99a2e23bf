package paramstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prn-tf/litup/internal/sigv4"
)

var fixedClock = func() time.Time {
	return time.Date(2024, 3, 14, 9, 26, 53, 0, time.UTC)
}

func staticCredentials() (sigv4.Credentials, error) {
	return sigv4.Credentials{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
	}, nil
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient("us-east-1",
		WithEndpoint(srv.URL),
		WithHTTPClient(srv.Client()),
		WithCredentials(staticCredentials),
		WithClock(fixedClock),
	)
}

func TestGetParameters(t *testing.T) {
	var gotBody getParametersRequest
	var gotHeaders http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/x-amz-json-1.1")
		json.NewEncoder(w).Encode(getParametersResponse{
			Parameters: []Parameter{
				{Name: "/lit-up/prod/edge-auth-username", Value: "listener"},
				{Name: "/lit-up/prod/edge-auth-password", Value: "hunter2"},
			},
			InvalidParameters: []string{"/lit-up/prod/active-versions"},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv)
	values, invalid, err := client.GetParameters(context.Background(), []string{
		"/lit-up/prod/edge-auth-username",
		"/lit-up/prod/edge-auth-password",
		"/lit-up/prod/active-versions",
	})
	if err != nil {
		t.Fatalf("GetParameters() error = %v", err)
	}

	if !gotBody.WithDecryption {
		t.Error("WithDecryption should be true")
	}
	if len(gotBody.Names) != 3 {
		t.Errorf("requested %d names, want 3", len(gotBody.Names))
	}

	if got := gotHeaders.Get("X-Amz-Target"); got != targetGetParameters {
		t.Errorf("X-Amz-Target = %q, want %q", got, targetGetParameters)
	}
	if got := gotHeaders.Get("Content-Type"); got != contentTypeAmzJSON {
		t.Errorf("Content-Type = %q, want %q", got, contentTypeAmzJSON)
	}
	if got := gotHeaders.Get("Authorization"); !strings.HasPrefix(got, sigv4.SignV4Algorithm) {
		t.Errorf("Authorization = %q, want SigV4", got)
	}
	if gotHeaders.Get("X-Amz-Date") == "" {
		t.Error("X-Amz-Date header missing")
	}

	if values["/lit-up/prod/edge-auth-username"] != "listener" {
		t.Errorf("username = %q, want listener", values["/lit-up/prod/edge-auth-username"])
	}
	if len(invalid) != 1 || invalid[0] != "/lit-up/prod/active-versions" {
		t.Errorf("invalid = %v, want the active-versions name", invalid)
	}
}

func TestGetParametersNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"__type":"AccessDeniedException"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)
	_, _, err := client.GetParameters(context.Background(), []string{"/lit-up/prod/edge-auth-username"})

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("GetParameters() error = %v, want *RequestError", err)
	}
	if reqErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", reqErr.StatusCode)
	}
}

func TestGetParametersUnparsableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := newTestClient(srv)
	_, _, err := client.GetParameters(context.Background(), []string{"/lit-up/prod/edge-auth-username"})

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("GetParameters() error = %v, want *RequestError", err)
	}
}

func TestGetParametersNoCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server without credentials")
	}))
	defer srv.Close()

	client := NewClient("us-east-1",
		WithEndpoint(srv.URL),
		WithHTTPClient(srv.Client()),
		WithCredentials(func() (sigv4.Credentials, error) {
			return sigv4.Credentials{}, ErrNoCredentials
		}),
	)

	_, _, err := client.GetParameters(context.Background(), []string{"/lit-up/prod/edge-auth-username"})
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("GetParameters() error = %v, want ErrNoCredentials", err)
	}
}

func TestPutParameter(t *testing.T) {
	var gotBody putParameterRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Amz-Target"); got != targetPutParameter {
			t.Errorf("X-Amz-Target = %q, want %q", got, targetPutParameter)
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)
		w.Write([]byte(`{"Version":1}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)
	if err := client.PutParameter(context.Background(), "/lit-up/prod/active-versions", "v1,v2"); err != nil {
		t.Fatalf("PutParameter() error = %v", err)
	}

	if gotBody.Name != "/lit-up/prod/active-versions" || gotBody.Value != "v1,v2" {
		t.Errorf("put body = %+v", gotBody)
	}
	if gotBody.Type != "SecureString" || !gotBody.Overwrite {
		t.Errorf("put body = %+v, want SecureString with overwrite", gotBody)
	}
}
