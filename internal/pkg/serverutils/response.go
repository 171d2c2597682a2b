package serverutils

import (
	"errors"

	"exam-proctoring-be/internal/service"
	"exam-proctoring-be/pkg/aggregator"
	"exam-proctoring-be/pkg/sensor"
	"exam-proctoring-be/pkg/session"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Message: message,
		Data:    data,
	}
}

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts failures into a
// fiber 400 error with the offending fields.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return fiber.NewError(fiber.StatusBadRequest, "Validation failed on: "+joinFields(fields))
		}
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}

func joinFields(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ", "
		}
		out += f
	}
	return out
}

// statusFor maps domain sentinels onto HTTP statuses.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrAttemptNotFound),
		errors.Is(err, service.ErrExamNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, session.ErrSessionNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, service.ErrAttemptNotOwned),
		errors.Is(err, aggregator.ErrAttemptTerminated):
		return fiber.StatusForbidden, true
	case errors.Is(err, service.ErrAttemptNotOngoing),
		errors.Is(err, service.ErrAlreadySubmitted),
		errors.Is(err, service.ErrStudentExists),
		errors.Is(err, session.ErrSessionActive),
		errors.Is(err, sensor.ErrDeviceUnavailable):
		return fiber.StatusConflict, true
	case errors.Is(err, service.ErrNoFaceDetected):
		return fiber.StatusBadRequest, true
	}
	return 0, false
}

// ErrorHandlerMiddleware converts errors bubbled out of controllers into the
// JSON envelope. Internal detector/storage errors never reach the client.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}

		if code, ok := statusFor(err); ok {
			return ctx.Status(code).JSON(fiber.Map{"message": err.Error()})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
}
