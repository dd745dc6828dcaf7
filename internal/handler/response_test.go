package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantType string
	}{
		{"validation", domain.ErrInvalidDay, http.StatusBadRequest, ErrorTypeValidation},
		{"wrapped validation", fmt.Errorf("card: %w", domain.ErrInvalidLimit), http.StatusBadRequest, ErrorTypeValidation},
		{"not found", domain.ErrCreditCardNotFound, http.StatusNotFound, ErrorTypeNotFound},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, ErrorTypeForbidden},
		{"owner removal", domain.ErrCannotRemoveOwner, http.StatusForbidden, ErrorTypeForbidden},
		{"conflict", domain.ErrAlreadyExists, http.StatusConflict, ErrorTypeConflict},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRequest(http.MethodGet, "/api/v1/test", "", ownerEmail)

			require.NoError(t, handleServiceError(c, tt.err, "do something"))
			assert.Equal(t, tt.wantCode, rec.Code)

			problem := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/v1/test", problem.Instance)
		})
	}
}

func TestHandleServiceError_HidesInternalDetails(t *testing.T) {
	c, rec := newRequest(http.MethodGet, "/api/v1/test", "", ownerEmail)

	require.NoError(t, handleServiceError(c, errors.New("password=hunter2"), "load data"))

	problem := decodeProblem(t, rec)
	assert.Equal(t, "Failed to load data", problem.Detail)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Credit card not found", capitalize(domain.ErrCreditCardNotFound.Error()))
	assert.Equal(t, "", capitalize(""))
}
