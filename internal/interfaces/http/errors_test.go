package http

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/pkg/validator"
)

func TestErrorResponse(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
		code   string
	}{
		"entrada inválida":   {fmt.Errorf("cantidad: %w", domain.ErrInvalidInput), fiber.StatusBadRequest, "INVALID_INPUT"},
		"no encontrado":      {fmt.Errorf("lista: %w", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		"usuario no existe":  {domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		"email duplicado":    {domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
		"stock insuficiente": {domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		"auditoría cerrada":  {domain.ErrAuditClosed, fiber.StatusConflict, "AUDIT_CLOSED"},
		"servicio externo":   {domain.ErrExternalService, fiber.StatusBadGateway, "EXTERNAL_SERVICE"},
		"timeout":            {fmt.Errorf("modelo: %w", context.DeadlineExceeded), fiber.StatusBadGateway, "EXTERNAL_TIMEOUT"},
		"validación":         {validator.ValidationErrors{{Field: "name", Tag: "required"}}, fiber.StatusBadRequest, "VALIDATION"},
		"error http":         {fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed, "HTTP_ERROR"},
		"api":                {badRequest("INVALID_ID", "id debe ser un UUID"), fiber.StatusBadRequest, "INVALID_ID"},
		"desconocido":        {errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			status, body := errorResponse(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestErrorResponse_InternoNoExponeDetalle(t *testing.T) {
	_, body := errorResponse(errors.New("pq: password authentication failed"))
	assert.Equal(t, "error interno", body.Message)
}
