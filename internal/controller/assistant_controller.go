package controller

import (
	"crypto/subtle"

	"mondichat-be/internal/dto"
	"mondichat-be/internal/pkg/serverutils"
	"mondichat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type assistantController struct {
	service       service.IAssistantService
	auth          fiber.Handler
	webhookSecret string
}

// NewAssistantController protects the query routes with auth. An empty
// webhookSecret leaves the webhook open.
func NewAssistantController(service service.IAssistantService, auth fiber.Handler, webhookSecret string) IAssistantController {
	return &assistantController{service: service, auth: auth, webhookSecret: webhookSecret}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(c.auth) // ✅ PROTECTED
	h.Post("/query", c.Query)
	h.Delete("/session", c.ResetSession)

	w := r.Group("/webhook/v1")
	w.Post("/message", c.requireWebhookSecret, c.Webhook)
}

func (c *assistantController) Query(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.QueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Query(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *assistantController) ResetSession(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)
	if err := c.service.ResetSession(ctx.UserContext(), userId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session cleared", nil))
}

func (c *assistantController) Webhook(ctx *fiber.Ctx) error {
	var req dto.WebhookMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.HandleWebhook(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *assistantController) requireWebhookSecret(ctx *fiber.Ctx) error {
	if c.webhookSecret == "" {
		return ctx.Next()
	}
	got := ctx.Get("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(got), []byte(c.webhookSecret)) != 1 {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid webhook secret"))
	}
	return ctx.Next()
}
