package handlers

import (
	"hosteldesk/internal/app"
	"hosteldesk/internal/services"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AllocationHandler struct {
	Handler
	allocationService *services.AllocationService
}

func NewAllocationHandler(app app.App, router fiber.Router) *AllocationHandler {
	log := logger.New("handlers").File("allocation_handler")
	return &AllocationHandler{
		allocationService: app.Services.Allocation,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AllocationHandler) Register() {
	allocations := h.router.Group("/allocations")
	allocations.Post("/", h.assign)
	allocations.Post("/:id/checkout", h.checkout)

	students := h.router.Group("/students")
	students.Get("/:id/allocation", h.getActive)
	students.Get("/:id/allocations", h.listForStudent)
}

type assignRequest struct {
	StudentID        uuid.UUID  `json:"studentId"`
	RoomID           uuid.UUID  `json:"roomId"`
	ExpectedCheckout *time.Time `json:"expectedCheckout"`
}

func (h *AllocationHandler) assign(c *fiber.Ctx) error {
	var req assignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.StudentID == uuid.Nil || req.RoomID == uuid.Nil {
		return badRequest(c, "studentId and roomId are required")
	}

	allocation, err := h.allocationService.Assign(
		c.UserContext(), req.StudentID, req.RoomID, req.ExpectedCheckout)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"allocation": allocation})
}

func (h *AllocationHandler) checkout(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	allocation, err := h.allocationService.Checkout(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"allocation": allocation})
}

func (h *AllocationHandler) getActive(c *fiber.Ctx) error {
	studentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	allocation, err := h.allocationService.GetActiveForStudent(c.UserContext(), studentID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"allocation": allocation})
}

func (h *AllocationHandler) listForStudent(c *fiber.Ctx) error {
	studentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	allocations, err := h.allocationService.ListForStudent(c.UserContext(), studentID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"allocations": allocations})
}
