// Package sigv4 implements the signing half of AWS Signature Version 4.
// It is used to authenticate outbound calls to AWS JSON APIs (Parameter Store)
// from environments where no AWS SDK is available, such as Lambda@Edge.
package sigv4

// =============================================================================
// Constants
// =============================================================================

const (
	// SignV4Algorithm is the algorithm identifier for AWS Signature Version 4.
	SignV4Algorithm = "AWS4-HMAC-SHA256"

	// ISO8601BasicFormat is the timestamp format used in the x-amz-date header.
	ISO8601BasicFormat = "20060102T150405Z"

	// YYYYMMDD is the short date format used in credential scope.
	YYYYMMDD = "20060102"

	// AWS4Request is the terminator of the credential scope and the final
	// key in the signing key derivation chain.
	AWS4Request = "aws4_request"

	// KeyDerivationPrefix seeds the signing key derivation chain.
	KeyDerivationPrefix = "AWS4"

	// EmptyStringSHA256 is the SHA-256 of the empty string, the payload hash
	// for bodyless requests.
	EmptyStringSHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

// =============================================================================
// Header Names
// =============================================================================

const (
	// HostHeader is injected into the signed header set.
	HostHeader = "host"

	// XAmzDateHeader carries the request timestamp.
	XAmzDateHeader = "x-amz-date"

	// XAmzSecurityTokenHeader carries the session token for temporary credentials.
	XAmzSecurityTokenHeader = "x-amz-security-token"

	// AuthorizationHeader carries the computed signature.
	AuthorizationHeader = "authorization"
)
