package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"supportagent/types"
)

// Generator is implemented by the response orchestrator.
type Generator interface {
	Generate(ctx context.Context, ticketText string) (*types.TicketResult, error)
}

type TicketHandler struct {
	generator Generator
	timeout   time.Duration
}

func NewTicketHandler(generator Generator, timeout time.Duration) *TicketHandler {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &TicketHandler{
		generator: generator,
		timeout:   timeout,
	}
}

// HandleGenerate is POST /generate: ticket text in, TicketResult out.
func (h *TicketHandler) HandleGenerate(c *fiber.Ctx) error {
	var params types.TicketRequest
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errs := types.Validate(&params); len(errs) > 0 {
		return NewValidationError(errs)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	result, err := h.generator.Generate(ctx, params.Text)
	if err != nil {
		return err
	}

	return c.JSON(result)
}
