package order

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/swiftlogi/marketplace/internal/user"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/orders", h.createOrder)
	app.Get("/api/user/orders/:userId", h.getOrders)
}

type createOrderRequest struct {
	BuyerID    int     `json:"buyerId"`
	Items      []Item  `json:"items"`
	TotalPrice float64 `json:"totalPrice"`
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// the buyer is whoever holds the token; a mismatching buyerId in the
	// body is rejected rather than silently rewritten
	if payload.BuyerID != 0 && payload.BuyerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "buyerId does not match token"})
	}

	created, err := h.service.Create(Order{
		BuyerID:    userID,
		Items:      payload.Items,
		TotalPrice: payload.TotalPrice,
	})
	if err != nil {
		switch err {
		case ErrEmptyCart, ErrBadQuantity, ErrBadPrice, ErrTotalMismatch:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": created})
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	requested, err := strconv.Atoi(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	if requested != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "cannot view another user's orders"})
	}

	orders, err := h.service.ListByBuyer(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(orders)
}
