package controller

import (
	"exam-proctoring-be/internal/dto"
	"exam-proctoring-be/internal/pkg/serverutils"
	"exam-proctoring-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStudentController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	GetProfile(ctx *fiber.Ctx) error
}

type studentController struct {
	service service.IStudentService
}

func NewStudentController(service service.IStudentService) IStudentController {
	return &studentController{service: service}
}

func (c *studentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/student/v1")
	h.Post("/register", c.Register)

	h.Use(serverutils.JwtMiddleware)
	h.Get("/profile", c.GetProfile)
}

func (c *studentController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterStudentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Student registered", res))
}

func (c *studentController) GetProfile(ctx *fiber.Ctx) error {
	studentId := studentIdFromCtx(ctx)

	res, err := c.service.GetProfile(ctx.Context(), studentId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Student profile", res))
}
