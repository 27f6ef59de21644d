package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"supportagent/types"
)

// Error is the JSON body sent for every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

func (e Error) Error() string {
	return e.Message
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid JSON request",
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errors,
	}
}

// ErrorHandler translates the typed error taxonomy of the core into
// transport codes. The core never fabricates fallback text in place of a
// failure; the escalation wording in a reply is model output, not an
// error path.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if apiErr, ok := err.(Error); ok {
		return c.Status(apiErr.Code).JSON(apiErr)
	}
	if valErr, ok := err.(ValidationError); ok {
		return c.Status(valErr.Status).JSON(valErr)
	}

	apiErr := toAPIError(err)
	log.Printf("request failed with code %d: %s", apiErr.Code, apiErr.Message)
	return c.Status(apiErr.Code).JSON(apiErr)
}

func toAPIError(err error) Error {
	var (
		classErr  *types.ClassificationError
		genErr    *types.GenerationError
		configErr *types.ConfigurationError
		fiberErr  *fiber.Error
	)
	switch {
	case errors.Is(err, types.ErrInvalidArgument):
		return NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrIndexNotFound):
		return NewError(fiber.StatusServiceUnavailable, "knowledge base index not available")
	case errors.As(err, &classErr):
		return NewError(fiber.StatusBadGateway, classErr.Error())
	case errors.As(err, &genErr):
		return NewError(fiber.StatusBadGateway, genErr.Error())
	case errors.As(err, &configErr):
		return NewError(fiber.StatusInternalServerError, configErr.Error())
	case errors.As(err, &fiberErr):
		return NewError(fiberErr.Code, fiberErr.Message)
	default:
		return NewError(fiber.StatusInternalServerError, err.Error())
	}
}
