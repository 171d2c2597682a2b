package controller

import (
	"exam-proctoring-be/internal/pkg/serverutils"
	"exam-proctoring-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IProctoringController interface {
	RegisterRoutes(r fiber.Router)
	StartSession(ctx *fiber.Ctx) error
	StopSession(ctx *fiber.Ctx) error
	GetWarning(ctx *fiber.Ctx) error
	RecordTabSwitch(ctx *fiber.Ctx) error
	IngestFrame(ctx *fiber.Ctx) error
	IngestAudio(ctx *fiber.Ctx) error
}

type proctoringController struct {
	service service.IProctoringService
}

func NewProctoringController(service service.IProctoringService) IProctoringController {
	return &proctoringController{service: service}
}

func (c *proctoringController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/proctoring/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/sessions/:attemptId/start", c.StartSession)
	h.Post("/sessions/:attemptId/stop", c.StopSession)
	h.Get("/sessions/:attemptId/warning", c.GetWarning)
	h.Post("/sessions/:attemptId/tab-switch", c.RecordTabSwitch)
	h.Post("/sessions/:attemptId/frames", c.IngestFrame)
	h.Post("/sessions/:attemptId/audio", c.IngestAudio)
}

func studentIdFromCtx(ctx *fiber.Ctx) uuid.UUID {
	idStr, _ := ctx.Locals("student_id").(string)
	id, _ := uuid.Parse(idStr)
	return id
}

func attemptIdFromParams(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("attemptId"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid attempt id")
	}
	return id, nil
}

func (c *proctoringController) StartSession(ctx *fiber.Ctx) error {
	studentId := studentIdFromCtx(ctx)
	attemptId, err := attemptIdFromParams(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.StartSession(ctx.Context(), studentId, attemptId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Proctoring session started", res))
}

func (c *proctoringController) StopSession(ctx *fiber.Ctx) error {
	studentId := studentIdFromCtx(ctx)
	attemptId, err := attemptIdFromParams(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.StopSession(ctx.Context(), studentId, attemptId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Proctoring session stopped", res))
}

func (c *proctoringController) GetWarning(ctx *fiber.Ctx) error {
	studentId := studentIdFromCtx(ctx)
	attemptId, err := attemptIdFromParams(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetWarning(ctx.Context(), studentId, attemptId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *proctoringController) RecordTabSwitch(ctx *fiber.Ctx) error {
	studentId := studentIdFromCtx(ctx)
	attemptId, err := attemptIdFromParams(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.RecordTabSwitch(ctx.Context(), studentId, attemptId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

// IngestFrame accepts a raw JPEG body pushed by the exam page webcam
// capture loop.
func (c *proctoringController) IngestFrame(ctx *fiber.Ctx) error {
	studentId := studentIdFromCtx(ctx)
	attemptId, err := attemptIdFromParams(ctx)
	if err != nil {
		return err
	}

	body := ctx.Body()
	if len(body) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Empty frame")
	}

	// The fiber body buffer is reused between requests.
	frame := make([]byte, len(body))
	copy(frame, body)

	if err := c.service.IngestFrame(ctx.Context(), studentId, attemptId, frame); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusAccepted)
}

// IngestAudio accepts raw 16-bit little-endian mono PCM.
func (c *proctoringController) IngestAudio(ctx *fiber.Ctx) error {
	studentId := studentIdFromCtx(ctx)
	attemptId, err := attemptIdFromParams(ctx)
	if err != nil {
		return err
	}

	body := ctx.Body()
	if len(body) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Empty audio chunk")
	}

	pcm := make([]byte, len(body))
	copy(pcm, body)

	if err := c.service.IngestAudio(ctx.Context(), studentId, attemptId, pcm); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusAccepted)
}
