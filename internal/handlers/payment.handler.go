package handlers

import (
	"hosteldesk/internal/app"
	"hosteldesk/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	Handler
	paymentService *services.PaymentService
}

func NewPaymentHandler(app app.App, router fiber.Router) *PaymentHandler {
	log := logger.New("handlers").File("payment_handler")
	return &PaymentHandler{
		paymentService: app.Services.Payment,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PaymentHandler) Register() {
	payments := h.router.Group("/payments")
	payments.Post("/", h.record)

	students := h.router.Group("/students")
	students.Get("/:id/payments", h.listForStudent)
}

func (h *PaymentHandler) record(c *fiber.Ctx) error {
	var input services.PaymentRecordInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	payment, err := h.paymentService.Record(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"payment": payment})
}

func (h *PaymentHandler) listForStudent(c *fiber.Ctx) error {
	studentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	payments, err := h.paymentService.ListForStudent(c.UserContext(), studentID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"payments": payments})
}
