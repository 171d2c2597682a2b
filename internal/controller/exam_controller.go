package controller

import (
	"exam-proctoring-be/internal/dto"
	"exam-proctoring-be/internal/pkg/serverutils"
	"exam-proctoring-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IExamController interface {
	RegisterRoutes(r fiber.Router)
	GetAvailableExams(ctx *fiber.Ctx) error
	StartAttempt(ctx *fiber.Ctx) error
	SubmitExam(ctx *fiber.Ctx) error
	GetResult(ctx *fiber.Ctx) error
}

type examController struct {
	service service.IExamService
}

func NewExamController(service service.IExamService) IExamController {
	return &examController{service: service}
}

func (c *examController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/exam/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/papers", c.GetAvailableExams)
	h.Post("/attempts", c.StartAttempt)
	h.Post("/attempts/submit", c.SubmitExam)
	h.Get("/attempts/:attemptId/result", c.GetResult)
}

func (c *examController) GetAvailableExams(ctx *fiber.Ctx) error {
	studentId := studentIdFromCtx(ctx)

	res, err := c.service.GetAvailableExams(ctx.Context(), studentId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Available exam papers", res))
}

func (c *examController) StartAttempt(ctx *fiber.Ctx) error {
	studentId := studentIdFromCtx(ctx)

	var req dto.StartAttemptRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.StartAttempt(ctx.Context(), studentId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Attempt started", res))
}

func (c *examController) SubmitExam(ctx *fiber.Ctx) error {
	studentId := studentIdFromCtx(ctx)

	var req dto.SubmitExamRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.SubmitExam(ctx.Context(), studentId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Exam submitted", res))
}

func (c *examController) GetResult(ctx *fiber.Ctx) error {
	studentId := studentIdFromCtx(ctx)
	attemptId, err := uuid.Parse(ctx.Params("attemptId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid attempt id")
	}

	res, err := c.service.GetResult(ctx.Context(), studentId, attemptId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Attempt result", res))
}
