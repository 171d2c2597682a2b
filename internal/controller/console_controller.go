package controller

import (
	"os"
	"strconv"

	"exam-proctoring-be/internal/pkg/logger"
	"exam-proctoring-be/internal/pkg/serverutils"
	"exam-proctoring-be/internal/service"
	internalWS "exam-proctoring-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IConsoleController serves the live proctor console: recent confirmed
// events over REST and the real-time feed over websocket.
type IConsoleController interface {
	RegisterRoutes(r fiber.Router)
	RecentEvents(ctx *fiber.Ctx) error
	AttemptEvents(ctx *fiber.Ctx) error
	ServeWs(ctx *fiber.Ctx) error
}

type consoleController struct {
	service service.IProctoringService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewConsoleController(service service.IProctoringService, hub *internalWS.Hub, log logger.ILogger) IConsoleController {
	return &consoleController{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

func (c *consoleController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/console/v1")
	h.Get("/ws", c.ServeWs)

	h.Use(serverutils.JwtMiddleware)
	h.Use(serverutils.ProctorOnly)
	h.Get("/events", c.RecentEvents)
	h.Get("/attempts/:attemptId/events", c.AttemptEvents)
}

func (c *consoleController) RecentEvents(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "50"))

	res, err := c.service.RecentEvents(ctx.Context(), limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Recent cheating events", res))
}

func (c *consoleController) AttemptEvents(ctx *fiber.Ctx) error {
	attemptId, err := uuid.Parse(ctx.Params("attemptId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid attempt id")
	}

	res, err := c.service.AttemptEvents(ctx.Context(), attemptId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Attempt cheating events", res))
}

// ServeWs upgrades a proctor console connection. Browsers cannot set
// headers on websocket requests, so the token may ride a query param.
func (c *consoleController) ServeWs(ctx *fiber.Ctx) error {
	tokenStr := ctx.Query("token")
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
	}

	role, _ := claims["role"].(string)
	if role != "proctor" && role != "admin" {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Proctor access required"})
	}

	proctorIdStr, ok := claims["student_id"].(string)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token missing subject"})
	}
	proctorId, err := uuid.Parse(proctorIdStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid subject in token"})
	}

	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			c.logger.Info("ConsoleController", "Console connected", map[string]interface{}{"proctor_id": proctorId})
			internalWS.ServeWs(c.hub, conn, proctorId)
			c.logger.Info("ConsoleController", "Console disconnected", map[string]interface{}{"proctor_id": proctorId})
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}
