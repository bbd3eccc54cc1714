// Package httputil provides response helpers for the stresslayout HTTP API.
//
// # Overview
//
//   - [WriteJSON]: encode a value with a status code
//   - [WriteError]: map an error to a status and a JSON error body
//   - [DecodeJSON]: strict, size-limited request decoding
//   - [ContentType], [Attachment]: headers for rendered artifacts
//
// Error bodies carry the error code so clients can branch on it:
//
//	{"error": {"code": "LAYOUT_NOT_FOUND", "message": "layout 1f0... not found"}}
//
// Status codes follow [errors.HTTPStatus]. Rate-limited responses also set
// Retry-After.
package httputil
