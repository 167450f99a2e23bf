// Package paramstore is a minimal, hand-signed client for AWS Systems Manager
// Parameter Store.
package paramstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prn-tf/litup/internal/sigv4"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// contentTypeAmzJSON is the content type for AWS JSON 1.1 protocol calls.
	contentTypeAmzJSON = "application/x-amz-json-1.1"

	// targetGetParameters identifies the GetParameters operation.
	targetGetParameters = "AmazonSSM.GetParameters"

	// targetPutParameter identifies the PutParameter operation.
	targetPutParameter = "AmazonSSM.PutParameter"

	// serviceName is the signing service name for Systems Manager.
	serviceName = "ssm"
)

// =============================================================================
// Types
// =============================================================================

// Parameter is a single name/value pair returned by GetParameters.
type Parameter struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// getParametersRequest is the GetParameters request body.
type getParametersRequest struct {
	Names          []string `json:"Names"`
	WithDecryption bool     `json:"WithDecryption"`
}

// getParametersResponse is the GetParameters response body.
type getParametersResponse struct {
	Parameters        []Parameter `json:"Parameters"`
	InvalidParameters []string    `json:"InvalidParameters"`
}

// putParameterRequest is the PutParameter request body.
type putParameterRequest struct {
	Name      string `json:"Name"`
	Value     string `json:"Value"`
	Type      string `json:"Type"`
	Overwrite bool   `json:"Overwrite"`
}

// CredentialsProvider supplies the credential triple for signing.
// The default provider reads the standard AWS environment variables.
type CredentialsProvider func() (sigv4.Credentials, error)

// EnvCredentials reads credentials from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY,
// and AWS_SESSION_TOKEN. The Lambda runtime injects these for the execution role.
func EnvCredentials() (sigv4.Credentials, error) {
	creds := sigv4.Credentials{
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
	}
	if !creds.Valid() {
		return sigv4.Credentials{}, ErrNoCredentials
	}
	return creds, nil
}

// Client calls the Parameter Store regional endpoint.
type Client struct {
	region      string
	endpoint    string
	httpClient  *http.Client
	credentials CredentialsProvider
	now         func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithEndpoint overrides the regional endpoint URL. Used in tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithCredentials sets the credentials provider.
func WithCredentials(provider CredentialsProvider) Option {
	return func(c *Client) { c.credentials = provider }
}

// WithClock sets the time source used for signing. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a Parameter Store client for a region.
func NewClient(region string, opts ...Option) *Client {
	c := &Client{
		region:      region,
		endpoint:    fmt.Sprintf("https://ssm.%s.amazonaws.com", region),
		httpClient:  http.DefaultClient,
		credentials: EnvCredentials,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// Operations
// =============================================================================

// GetParameters fetches named parameters with decryption enabled.
// It returns the resolved parameters keyed by name, and the list of names the
// service reported as invalid.
func (c *Client) GetParameters(ctx context.Context, names []string) (map[string]string, []string, error) {
	body, err := json.Marshal(getParametersRequest{Names: names, WithDecryption: true})
	if err != nil {
		return nil, nil, &RequestError{Operation: "GetParameters", Err: err}
	}

	respBody, err := c.call(ctx, targetGetParameters, string(body))
	if err != nil {
		return nil, nil, err
	}

	var resp getParametersResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, nil, &RequestError{Operation: "GetParameters", Err: fmt.Errorf("unparsable response: %w", err)}
	}

	values := make(map[string]string, len(resp.Parameters))
	for _, p := range resp.Parameters {
		values[p.Name] = p.Value
	}
	return values, resp.InvalidParameters, nil
}

// PutParameter writes a SecureString parameter, overwriting any existing value.
// Used by the admin CLI to seed the edge configuration.
func (c *Client) PutParameter(ctx context.Context, name, value string) error {
	body, err := json.Marshal(putParameterRequest{
		Name:      name,
		Value:     value,
		Type:      "SecureString",
		Overwrite: true,
	})
	if err != nil {
		return &RequestError{Operation: "PutParameter", Err: err}
	}

	if _, err := c.call(ctx, targetPutParameter, string(body)); err != nil {
		return err
	}
	return nil
}

// call signs and performs a single AWS JSON 1.1 operation.
func (c *Client) call(ctx context.Context, target, body string) ([]byte, error) {
	operation := strings.TrimPrefix(target, "AmazonSSM.")

	creds, err := c.credentials()
	if err != nil {
		return nil, &RequestError{Operation: operation, Err: err}
	}

	host := strings.TrimPrefix(strings.TrimPrefix(c.endpoint, "https://"), "http://")

	signed, err := sigv4.Sign(sigv4.Request{
		Method: http.MethodPost,
		Host:   host,
		Path:   "/",
		Headers: map[string]string{
			"content-type": contentTypeAmzJSON,
			"x-amz-target": target,
		},
		Body: body,
	}, creds, c.region, serviceName, c.now())
	if err != nil {
		return nil, &RequestError{Operation: operation, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/", strings.NewReader(body))
	if err != nil {
		return nil, &RequestError{Operation: operation, Err: err}
	}
	req.Header.Set("Content-Type", contentTypeAmzJSON)
	req.Header.Set("X-Amz-Target", target)
	req.Header.Set("X-Amz-Date", signed.AmzDate)
	req.Header.Set("Authorization", signed.Authorization)
	if signed.SecurityToken != "" {
		req.Header.Set("X-Amz-Security-Token", signed.SecurityToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Operation: operation, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(respBody))),
		}
	}

	return respBody, nil
}
