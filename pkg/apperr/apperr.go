package apperr

import (
	"errors"

	"dating_match_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// Error carries the HTTP status and machine code alongside the message
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New build an Error with an explicit status and code
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// NotFound build a 404 error
func NotFound(code, message string) *Error {
	return New(fiber.StatusNotFound, code, message)
}

// Forbidden build a 403 error
func Forbidden(code, message string) *Error {
	return New(fiber.StatusForbidden, code, message)
}

// BadRequest build a 400 error
func BadRequest(code, message string) *Error {
	return New(fiber.StatusBadRequest, code, message)
}

// Conflict build a 409 error
func Conflict(code, message string) *Error {
	return New(fiber.StatusConflict, code, message)
}

// Set log err info and wrap it as a plain error
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Reply write err to the fiber response, defaulting to 500 for plain errors
func Reply(c *fiber.Ctx, err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Status).JSON(fiber.Map{
			"code":  apiErr.Code,
			"error": apiErr.Message,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// Is report whether err carries the given code
func Is(err error, code string) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
