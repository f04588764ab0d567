package handlers

import (
	"hosteldesk/internal/app"
	"hosteldesk/internal/models"
	"hosteldesk/internal/repositories"
	"hosteldesk/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type ComplaintHandler struct {
	Handler
	complaintService *services.ComplaintService
}

func NewComplaintHandler(app app.App, router fiber.Router) *ComplaintHandler {
	log := logger.New("handlers").File("complaint_handler")
	return &ComplaintHandler{
		complaintService: app.Services.Complaint,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ComplaintHandler) Register() {
	complaints := h.router.Group("/complaints")
	complaints.Post("/", h.create)
	complaints.Get("/", h.list)
	complaints.Get("/:id", h.get)
	complaints.Patch("/:id", h.update)
	complaints.Get("/:id/logs", h.logs)

	staff := h.router.Group("/staff")
	staff.Get("/", h.listStaff)
}

func (h *ComplaintHandler) create(c *fiber.Ctx) error {
	var input services.ComplaintCreateInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	complaint, err := h.complaintService.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"complaint": complaint})
}

func (h *ComplaintHandler) list(c *fiber.Ctx) error {
	var filter repositories.ComplaintFilter

	studentID, ok := parseUUIDQuery(c, "studentId")
	if !ok {
		return nil
	}
	filter.StudentID = studentID

	roomID, ok := parseUUIDQuery(c, "roomId")
	if !ok {
		return nil
	}
	filter.RoomID = roomID

	if raw := c.Query("status"); raw != "" {
		status := models.ComplaintStatus(raw)
		if !status.Valid() {
			return badRequest(c, "invalid status")
		}
		filter.Status = &status
	}
	if raw := c.Query("category"); raw != "" {
		category := models.ComplaintCategory(raw)
		if !category.Valid() {
			return badRequest(c, "invalid category")
		}
		filter.Category = &category
	}

	complaints, err := h.complaintService.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"complaints": complaints})
}

func (h *ComplaintHandler) get(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	complaint, err := h.complaintService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"complaint": complaint})
}

func (h *ComplaintHandler) update(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	var input services.ComplaintUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	complaint, err := h.complaintService.Update(c.UserContext(), id, input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"complaint": complaint})
}

func (h *ComplaintHandler) logs(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	entries, err := h.complaintService.Logs(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"logs": entries})
}

func (h *ComplaintHandler) listStaff(c *fiber.Ctx) error {
	availableOnly := c.QueryBool("available", false)

	staff, err := h.complaintService.ListStaff(c.UserContext(), availableOnly)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"staff": staff})
}
