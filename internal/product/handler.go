package product

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/swiftlogi/marketplace/internal/user"
)

type Handler struct {
	service     ServiceInterface
	userService user.ServiceInterface
}

func NewHandler(service ServiceInterface, userService user.ServiceInterface) *Handler {
	return &Handler{service: service, userService: userService}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/products", h.listProducts)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/products", h.createProduct)
	app.Get("/api/user/products", h.listOwnProducts)
}

type createProductRequest struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Location  string  `json:"location"`
	ImageData *string `json:"image,omitempty"`
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	// optional seller filter for inventory views
	if v := c.Query("seller"); v != "" {
		sellerID, err := strconv.Atoi(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid seller id"})
		}
		return c.JSON(h.service.ListBySeller(sellerID))
	}
	return c.JSON(h.service.List())
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	role, err := user.GetRoleFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	if role != user.RoleSeller && role != user.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "only sellers can list products"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	payload := new(createProductRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	seller, err := h.userService.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "seller not found"})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	created, err := h.service.Create(Product{
		Name:       payload.Name,
		Price:      payload.Price,
		SellerID:   seller.ID,
		SellerName: seller.Name,
		Location:   payload.Location,
		ImageData:  payload.ImageData,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		switch err {
		case ErrInvalidName, ErrInvalidPrice:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) listOwnProducts(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	return c.JSON(h.service.ListBySeller(userID))
}
