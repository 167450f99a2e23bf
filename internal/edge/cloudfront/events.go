// Package cloudfront defines the Lambda@Edge viewer-request event contract.
// A viewer-request function receives the CloudFront request record and returns
// either the (possibly mutated) request, which CloudFront forwards to the
// origin, or a generated response, which terminates the request. That union
// return is not expressible with the event types shipped in aws-lambda-go, so
// the shapes are defined here.
package cloudfront

import (
	"encoding/json"
	"strings"
)

// RequestEvent is the event delivered to a viewer-request function.
type RequestEvent struct {
	Records []Record `json:"Records"`
}

// Record is a single CloudFront event record.
type Record struct {
	CF EventData `json:"cf"`
}

// EventData carries the distribution config and the viewer request.
type EventData struct {
	Config  DistributionConfig `json:"config"`
	Request *Request           `json:"request"`
}

// DistributionConfig identifies the distribution that dispatched the event.
type DistributionConfig struct {
	DistributionDomainName string `json:"distributionDomainName"`
	DistributionID         string `json:"distributionId"`
	EventType              string `json:"eventType"`
	RequestID              string `json:"requestId"`
}

// Request is the viewer request as CloudFront describes it. Header map keys
// are lowercased header names; each value list carries the original casing in
// its Key field.
type Request struct {
	ClientIP    string  `json:"clientIp,omitempty"`
	Headers     Headers `json:"headers"`
	Method      string  `json:"method"`
	QueryString string  `json:"querystring,omitempty"`
	URI         string  `json:"uri"`
}

// Response is a response generated at the edge in place of contacting the origin.
type Response struct {
	Status            string  `json:"status"`
	StatusDescription string  `json:"statusDescription,omitempty"`
	Headers           Headers `json:"headers,omitempty"`
	Body              string  `json:"body,omitempty"`
}

// Header is one header value with its display-cased name.
type Header struct {
	Key   string `json:"key,omitempty"`
	Value string `json:"value"`
}

// Headers maps lowercased header names to their values.
type Headers map[string][]Header

// First returns the first value of a header, or "" when absent.
// CloudFront may deliver multiple values; only the first is consulted.
func (h Headers) First(name string) string {
	values := h[strings.ToLower(name)]
	if len(values) == 0 {
		return ""
	}
	return values[0].Value
}

// Set replaces a header with a single value. The display-cased name is kept
// in the value's Key field as CloudFront requires.
func (h Headers) Set(name, value string) {
	h[strings.ToLower(name)] = []Header{{Key: name, Value: value}}
}

// Result is the union returned by a viewer-request function: exactly one of
// Request or Response is set. It marshals as the set member alone.
type Result struct {
	Request  *Request
	Response *Response
}

// ForwardRequest wraps a request to be forwarded to the origin.
func ForwardRequest(req *Request) *Result {
	return &Result{Request: req}
}

// GenerateResponse wraps a response generated at the edge.
func GenerateResponse(resp *Response) *Result {
	return &Result{Response: resp}
}

// MarshalJSON emits the request or the response, whichever is set.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.Response != nil {
		return json.Marshal(r.Response)
	}
	return json.Marshal(r.Request)
}
