package handlers

import (
	"hosteldesk/internal/app"
	"hosteldesk/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

// HostelHandler exposes hostel and room inventory endpoints.
type HostelHandler struct {
	Handler
	roomService *services.RoomService
}

func NewHostelHandler(app app.App, router fiber.Router) *HostelHandler {
	log := logger.New("handlers").File("hostel_handler")
	return &HostelHandler{
		roomService: app.Services.Room,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *HostelHandler) Register() {
	hostels := h.router.Group("/hostels")
	hostels.Post("/", h.createHostel)
	hostels.Get("/", h.listHostels)
	hostels.Get("/:id", h.getHostel)

	rooms := h.router.Group("/rooms")
	rooms.Post("/", h.createRoom)
	rooms.Get("/", h.listRooms)
	rooms.Get("/:id", h.getRoom)
	rooms.Patch("/:id/availability", h.setAvailability)
}

func (h *HostelHandler) createHostel(c *fiber.Ctx) error {
	var input services.HostelCreateInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	hostel, err := h.roomService.CreateHostel(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"hostel": hostel})
}

func (h *HostelHandler) listHostels(c *fiber.Ctx) error {
	hostels, err := h.roomService.ListHostels(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"hostels": hostels})
}

func (h *HostelHandler) getHostel(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	hostel, err := h.roomService.GetHostel(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"hostel": hostel})
}

func (h *HostelHandler) createRoom(c *fiber.Ctx) error {
	var input services.RoomCreateInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	room, err := h.roomService.CreateRoom(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"room": room})
}

func (h *HostelHandler) listRooms(c *fiber.Ctx) error {
	hostelID, ok := parseUUIDQuery(c, "hostelId")
	if !ok {
		return nil
	}

	rooms, err := h.roomService.ListRooms(c.UserContext(), hostelID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"rooms": rooms})
}

func (h *HostelHandler) getRoom(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	room, err := h.roomService.GetRoom(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"room": room})
}

func (h *HostelHandler) setAvailability(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil
	}

	var body struct {
		Available *bool `json:"available"`
	}
	if err := c.BodyParser(&body); err != nil || body.Available == nil {
		return badRequest(c, "available flag is required")
	}

	if err := h.roomService.SetRoomAvailability(c.UserContext(), id, *body.Available); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"status": "updated"})
}
