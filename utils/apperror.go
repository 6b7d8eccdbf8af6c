package utils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindForbidden  ErrorKind = "forbidden"
	KindNotFound   ErrorKind = "not_found"
	KindUpstream   ErrorKind = "upstream"
)

// AppError is the only error shape handlers are expected to return.
// The wrapped cause is logged but never serialized to clients.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func Upstream(message string, cause error) *AppError {
	return &AppError{Kind: KindUpstream, Message: message, Err: cause}
}

func (k ErrorKind) Status() int {
	switch k {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindUpstream:
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler is installed once in the fiber config so every handler
// maps its error kind to a status in a single place.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			log.Printf("[ERROR] %s: %v | Path: %s | Method: %s", appErr.Kind, appErr.Err, c.Path(), c.Method())
		}
		return c.Status(appErr.Kind.Status()).JSON(fiber.Map{
			"success": false,
			"error": fiber.Map{
				"kind":    appErr.Kind,
				"message": appErr.Message,
			},
		})
	}

	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"kind":    "internal",
			"message": err.Error(),
		},
	})
}
