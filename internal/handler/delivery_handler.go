package handler

import (
	"github.com/DovranA/zara-app/internal/model"
	"github.com/DovranA/zara-app/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DeliveryHandler struct {
	service service.DeliveryService
}

func NewDeliveryHandler(s service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{service: s}
}

// createDeliveryRequest carries the delivery header plus its lines; the
// whole set is persisted in one transaction.
type createDeliveryRequest struct {
	model.Delivery
	Items []model.DeliveryItem `json:"items"`
}

func (h *DeliveryHandler) GetDeliveries(c *fiber.Ctx) error {
	deliveries, err := h.service.List(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch deliveries"})
	}
	return c.JSON(deliveries)
}

func (h *DeliveryHandler) GetDelivery(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}
	delivery, err := h.service.Get(c.Context(), id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch delivery"})
	}
	if delivery == nil {
		return c.Status(404).JSON(fiber.Map{"error": "Delivery not found"})
	}
	return c.JSON(delivery)
}

func (h *DeliveryHandler) GetDeliveryItems(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}
	items, err := h.service.Items(c.Context(), id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch delivery items"})
	}
	if items == nil {
		items = []model.DeliveryItem{}
	}
	return c.JSON(items)
}

func (h *DeliveryHandler) CreateDelivery(c *fiber.Ctx) error {
	var req createDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	id, err := h.service.Create(c.Context(), &req.Delivery, req.Items)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Delivery created", "id": id})
}

func (h *DeliveryHandler) UpdateDelivery(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}
	var delivery model.Delivery
	if err := c.BodyParser(&delivery); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	delivery.ID = id
	if err := h.service.Update(c.Context(), &delivery); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Delivery updated", "data": delivery})
}

func (h *DeliveryHandler) DeleteDelivery(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete delivery"})
	}
	return c.JSON(fiber.Map{"message": "Delivery deleted"})
}
