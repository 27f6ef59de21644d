package api

import (
	"github.com/gofiber/fiber/v2"

	"supportagent/types"
)

type CheckHandler struct{}

func NewCheckHandler() *CheckHandler {
	return &CheckHandler{}
}

func (h CheckHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(types.HealthResponse{
		Status:  "healthy",
		Message: "support agent API is running",
	})
}
