package dto

import (
	"net/http"
	"strings"
)

// Error codes presented to portal clients. Domain layers raise short
// codes like NOT_FOUND; NormalizeErrorCode converts them to this ERR_*
// vocabulary before they leave the HTTP layer.
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	ErrCodeValidation = "ERR_VALIDATION"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	// 422s: the request was well-formed but the aggregate refused it.
	ErrCodeInvalidState  = "ERR_INVALID_STATE"
	ErrCodeComputation   = "ERR_COMPUTATION"
	ErrCodeInviteExpired = "ERR_INVITE_EXPIRED"

	ErrCodeInvalidInput     = "ERR_INVALID_INPUT"
	ErrCodeInvalidSignature = "ERR_INVALID_SIGNATURE"

	// Attachment upload rejections.
	ErrCodeFileTooLarge     = "ERR_FILE_TOO_LARGE"
	ErrCodeUnsupportedMedia = "ERR_UNSUPPORTED_MEDIA"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:  http.StatusUnprocessableEntity,
	ErrCodeComputation:   http.StatusUnprocessableEntity,
	ErrCodeInviteExpired: http.StatusUnprocessableEntity,

	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidSignature: http.StatusBadRequest,

	ErrCodeFileTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeUnsupportedMedia: http.StatusUnsupportedMediaType,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus maps an error code to its HTTP status. Unmapped
// INVALID_* codes come from entity-level guards (invalid title, price,
// email, ...) and classify as 422; anything else unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

var domainCodeMapping = map[string]string{
	"NOT_FOUND":        ErrCodeNotFound,
	"ITEM_NOT_FOUND":   ErrCodeNotFound,
	"STEP_NOT_FOUND":   ErrCodeNotFound,
	"UPLOAD_NOT_FOUND": ErrCodeNotFound,

	"ALREADY_EXISTS":    ErrCodeAlreadyExists,
	"DUPLICATE_PRODUCT": ErrCodeAlreadyExists,
	"ALREADY_LINKED":    ErrCodeConflict,

	"INVALID_STATE":    ErrCodeInvalidState,
	"ALREADY_ACTIVE":   ErrCodeInvalidState,
	"ALREADY_INACTIVE": ErrCodeInvalidState,
	"NO_ITEMS":         ErrCodeInvalidState,
	"NO_STEPS":         ErrCodeInvalidState,

	"INVITE_EXPIRED":    ErrCodeInviteExpired,
	"COMPUTATION_ERROR": ErrCodeComputation,

	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"INVALID_TOKEN":        ErrCodeTokenInvalid,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,

	"INVALID_INPUT":     ErrCodeInvalidInput,
	"VALIDATION_ERROR":  ErrCodeValidation,
	"BAD_REQUEST":       ErrCodeBadRequest,
	"INTERNAL_ERROR":    ErrCodeInternal,
	"INVALID_SIGNATURE": ErrCodeInvalidSignature,

	"FILE_TOO_LARGE":          ErrCodeFileTooLarge,
	"DISALLOWED_CONTENT_TYPE": ErrCodeUnsupportedMedia,

	// Infrastructure failures surface as opaque internal errors.
	"TOKEN_GENERATION_FAILED": ErrCodeInternal,
	"GATEWAY_UNAVAILABLE":     ErrCodeInternal,
	"TOKEN_HASH_FAILED":       ErrCodeInternal,
	"UPLOAD_URL_FAILED":       ErrCodeInternal,
	"DOWNLOAD_URL_FAILED":     ErrCodeInternal,
	"STORAGE_CHECK_FAILED":    ErrCodeInternal,
	"STORAGE_DELETE_FAILED":   ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the ERR_* form,
// passing through codes it does not recognize.
func NormalizeErrorCode(code string) string {
	if normalized, ok := domainCodeMapping[code]; ok {
		return normalized
	}
	return code
}
