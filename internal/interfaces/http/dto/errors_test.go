package dto_test

import (
	"net/http"
	"testing"

	"github.com/agencyos/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{dto.ErrCodeNotFound, http.StatusNotFound},
		{dto.ErrCodeAlreadyExists, http.StatusConflict},
		{dto.ErrCodeConcurrencyConflict, http.StatusConflict},
		{dto.ErrCodeValidation, http.StatusBadRequest},
		{dto.ErrCodeUnauthorized, http.StatusUnauthorized},
		{dto.ErrCodeForbidden, http.StatusForbidden},
		{dto.ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{dto.ErrCodeComputation, http.StatusUnprocessableEntity},
		{dto.ErrCodeInviteExpired, http.StatusUnprocessableEntity},
		{dto.ErrCodeFileTooLarge, http.StatusRequestEntityTooLarge},
		{dto.ErrCodeUnsupportedMedia, http.StatusUnsupportedMediaType},
		{dto.ErrCodeRateLimited, http.StatusTooManyRequests},
		{dto.ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, dto.GetHTTPStatus(tt.code))
		})
	}
}

func TestGetHTTPStatus_UnknownCode(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, dto.GetHTTPStatus("SOMETHING_ELSE"))
}

func TestGetHTTPStatus_EntityGuardCodes(t *testing.T) {
	// Entity validation codes are not individually mapped but still classify as 422
	for _, code := range []string{"INVALID_NAME", "INVALID_PRICE", "INVALID_EMAIL", "INVALID_TRIGGER"} {
		assert.Equal(t, http.StatusUnprocessableEntity, dto.GetHTTPStatus(code), code)
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		legacy     string
		normalized string
	}{
		{"NOT_FOUND", dto.ErrCodeNotFound},
		{"ITEM_NOT_FOUND", dto.ErrCodeNotFound},
		{"ALREADY_EXISTS", dto.ErrCodeAlreadyExists},
		{"ALREADY_LINKED", dto.ErrCodeConflict},
		{"INVALID_STATE", dto.ErrCodeInvalidState},
		{"COMPUTATION_ERROR", dto.ErrCodeComputation},
		{"INVITE_EXPIRED", dto.ErrCodeInviteExpired},
		{"INVALID_SIGNATURE", dto.ErrCodeInvalidSignature},
		{"DISALLOWED_CONTENT_TYPE", dto.ErrCodeUnsupportedMedia},
		{"FILE_TOO_LARGE", dto.ErrCodeFileTooLarge},
		{"UPLOAD_URL_FAILED", dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.legacy, func(t *testing.T) {
			assert.Equal(t, tt.normalized, dto.NormalizeErrorCode(tt.legacy))
		})
	}
}

func TestNormalizeErrorCode_PassThrough(t *testing.T) {
	assert.Equal(t, dto.ErrCodeNotFound, dto.NormalizeErrorCode(dto.ErrCodeNotFound))
	assert.Equal(t, "INVALID_SCORE", dto.NormalizeErrorCode("INVALID_SCORE"))
}

func TestNormalizedDomainCodesRoundTripToExpectedStatus(t *testing.T) {
	tests := []struct {
		domainCode string
		status     int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"COMPUTATION_ERROR", http.StatusUnprocessableEntity},
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"FORBIDDEN", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.domainCode, func(t *testing.T) {
			assert.Equal(t, tt.status, dto.GetHTTPStatus(dto.NormalizeErrorCode(tt.domainCode)))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeNotFound, "Deal not found", "req-123")

	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Deal not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewSuccessResponseWithMeta_RoundsUpTotalPages(t *testing.T) {
	resp := dto.NewSuccessResponseWithMeta([]string{"a"}, 41, 1, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
