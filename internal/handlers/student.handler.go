package handlers

import (
	"hosteldesk/internal/app"
	"hosteldesk/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type StudentHandler struct {
	Handler
	studentService *services.StudentService
}

func NewStudentHandler(app app.App, router fiber.Router) *StudentHandler {
	log := logger.New("handlers").File("student_handler")
	return &StudentHandler{
		studentService: app.Services.Student,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *StudentHandler) Register() {
	students := h.router.Group("/students")
	students.Post("/", h.register)
	students.Get("/", h.list)
	students.Get("/:id", h.get)
	students.Post("/:id/deactivate", h.deactivate)
	students.Post("/:id/reactivate", h.reactivate)
}

func (h *StudentHandler) register(c *fiber.Ctx) error {
	var input services.StudentRegisterInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	student, err := h.studentService.Register(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"student": student})
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active", false)

	students, err := h.studentService.List(c.UserContext(), activeOnly)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"students": students})
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	student, err := h.studentService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"student": student})
}

func (h *StudentHandler) deactivate(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	if err := h.studentService.Deactivate(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"status": "deactivated"})
}

func (h *StudentHandler) reactivate(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	if err := h.studentService.Reactivate(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"status": "active"})
}
