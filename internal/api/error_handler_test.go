package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/99minutos/inventory-system/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", domain.NewValidationError("Please fill all fields"), http.StatusBadRequest, `{"error":"Please fill all fields"}`},
		{"user exists", domain.ErrUserExists, http.StatusBadRequest, `{"error":"User already exists"}`},
		{"missing token", domain.ErrUnauthorized, http.StatusUnauthorized, `{"error":"Authorization token missing or invalid"}`},
		{"invalid token", errors.Join(domain.ErrInvalidToken, errors.New("token is expired")), http.StatusUnauthorized, `{"error":"Invalid or expired token"}`},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, `{"error":"Invalid email or password"}`},
		{"forbidden", &domain.ForbiddenError{Username: "sam", Role: domain.RoleStaff, Action: "delete product"}, http.StatusForbidden, `{"errorMessage":"sam with staff role not authorized to delete product"}`},
		{"user not found", fmt.Errorf("lookup: %w", domain.ErrUserNotFound), http.StatusNotFound, `{"error":"User not found"}`},
		{"product not found", domain.ErrProductNotFound, http.StatusNotFound, `{"error":"Product not found"}`},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, `{"error":"invalid payload"}`},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	e := echo.New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler(tt.err, c)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.wantCode, statusCode(c, tt.err))
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrProductNotFound, c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
