package job

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/swiftlogi/marketplace/internal/order"
	"github.com/swiftlogi/marketplace/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/jobs", h.listJobs)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/jobs/:orderId/accept", h.acceptJob)
	app.Post("/api/jobs/:orderId/deliver", h.deliverJob)
	app.Post("/api/jobs/:orderId/status", h.updateStatus)
}

func (h *Handler) listJobs(c *fiber.Ctx) error {
	jobs, err := h.service.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(jobs)
}

func (h *Handler) acceptJob(c *fiber.Ctx) error {
	return h.transition(c, func(orderID int) (Job, error) {
		return h.service.Accept(orderID)
	})
}

func (h *Handler) deliverJob(c *fiber.Ctx) error {
	return h.transition(c, func(orderID int) (Job, error) {
		return h.service.Deliver(orderID)
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	payload := new(statusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return h.transition(c, func(orderID int) (Job, error) {
		return h.service.SetStatus(orderID, payload.Status)
	})
}

func (h *Handler) transition(c *fiber.Ctx, apply func(orderID int) (Job, error)) error {
	role, err := user.GetRoleFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	if role != user.RoleRider && role != user.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "only riders can update deliveries"})
	}

	orderID, err := strconv.Atoi(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}

	updated, err := apply(orderID)
	if err != nil {
		switch err {
		case order.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		case order.ErrBadTransition:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(updated)
}
