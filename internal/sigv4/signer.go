// Package sigv4 implements the signing half of AWS Signature Version 4.
package sigv4

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrMissingCredentials indicates the credential pair needed to sign is absent.
var ErrMissingCredentials = errors.New("missing access key ID or secret access key")

// Credentials is the credential triple used to sign a request.
// SessionToken is empty for long-lived credentials.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Valid reports whether the credentials are usable for signing.
func (c Credentials) Valid() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// Request describes the HTTP request to be signed.
// The query string is assumed empty; the APIs called by this repository
// carry all operation data in the body.
type Request struct {
	// Method is the HTTP method (e.g. "POST").
	Method string

	// Host is the target host, included in the signed header set.
	Host string

	// Path is the request path. Defaults to "/" when empty.
	Path string

	// Headers are additional headers to include in the signature.
	Headers map[string]string

	// Body is the request payload.
	Body string
}

// Signed is the result of signing a request. The caller must send AmzDate,
// Authorization, and (when non-empty) SecurityToken as the x-amz-date,
// authorization, and x-amz-security-token headers.
type Signed struct {
	AmzDate       string
	Authorization string
	SecurityToken string
}

// Sign computes the SigV4 authorization for a request at the given time.
// It is a pure function: identical inputs and timestamp produce identical output.
func Sign(req Request, creds Credentials, region, service string, now time.Time) (Signed, error) {
	if !creds.Valid() {
		return Signed{}, ErrMissingCredentials
	}

	now = now.UTC()
	amzDate := now.Format(ISO8601BasicFormat)
	dateStamp := now.Format(YYYYMMDD)

	path := req.Path
	if path == "" {
		path = "/"
	}

	// Assemble the signed header set: caller headers plus host, x-amz-date,
	// and the session token when present. Names are lowercased before sorting.
	headers := make(map[string]string, len(req.Headers)+3)
	for name, value := range req.Headers {
		headers[strings.ToLower(name)] = value
	}
	headers[HostHeader] = req.Host
	headers[XAmzDateHeader] = amzDate
	if creds.SessionToken != "" {
		headers[XAmzSecurityTokenHeader] = creds.SessionToken
	}

	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	var canonicalHeaders strings.Builder
	for _, name := range names {
		canonicalHeaders.WriteString(name)
		canonicalHeaders.WriteString(":")
		canonicalHeaders.WriteString(trimHeaderValue(headers[name]))
		canonicalHeaders.WriteString("\n")
	}
	signedHeaders := strings.Join(names, ";")

	payloadHash := hashSHA256(req.Body)

	canonicalRequest := req.Method + "\n" +
		path + "\n" +
		"\n" + // empty canonical query string
		canonicalHeaders.String() + "\n" +
		signedHeaders + "\n" +
		payloadHash

	scope := dateStamp + "/" + region + "/" + service + "/" + AWS4Request

	stringToSign := SignV4Algorithm + "\n" +
		amzDate + "\n" +
		scope + "\n" +
		hashSHA256(canonicalRequest)

	signingKey := deriveSigningKey(creds.SecretAccessKey, dateStamp, region, service)
	signature := hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))

	authorization := SignV4Algorithm +
		" Credential=" + creds.AccessKeyID + "/" + scope +
		", SignedHeaders=" + signedHeaders +
		", Signature=" + signature

	return Signed{
		AmzDate:       amzDate,
		Authorization: authorization,
		SecurityToken: creds.SessionToken,
	}, nil
}

// deriveSigningKey derives the signing key for AWS v4 signatures:
// HMAC(HMAC(HMAC(HMAC("AWS4"+secret, date), region), service), "aws4_request")
func deriveSigningKey(secretKey, dateStamp, region, service string) []byte {
	kDate := hmacSHA256([]byte(KeyDerivationPrefix+secretKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	return hmacSHA256(kService, []byte(AWS4Request))
}

// hmacSHA256 computes HMAC-SHA256.
func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

// hashSHA256 computes the hex-encoded SHA-256 digest of a string.
func hashSHA256(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// trimHeaderValue trims and collapses internal whitespace, as required for
// canonical header values.
func trimHeaderValue(value string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(value)), " ")
}
