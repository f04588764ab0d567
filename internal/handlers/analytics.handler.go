package handlers

import (
	"hosteldesk/internal/app"
	"hosteldesk/internal/repositories"
	"hosteldesk/internal/services"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	Handler
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(app app.App, router fiber.Router) *AnalyticsHandler {
	log := logger.New("handlers").File("analytics_handler")
	return &AnalyticsHandler{
		analyticsService: app.Services.Analytics,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AnalyticsHandler) Register() {
	analytics := h.router.Group("/analytics")
	analytics.Get("/categories", h.categories)
	analytics.Get("/rooms", h.rooms)
	analytics.Get("/hostels", h.hostels)
	analytics.Get("/resolution", h.resolution)
	analytics.Get("/trend", h.trend)
	analytics.Get("/availability", h.availability)
}

// parseFilter reads hostelId, from and to query parameters. Dates use
// YYYY-MM-DD; the "to" bound is exclusive.
func (h *AnalyticsHandler) parseFilter(c *fiber.Ctx) (repositories.AnalyticsFilter, bool) {
	var filter repositories.AnalyticsFilter

	hostelID, ok := parseUUIDQuery(c, "hostelId")
	if !ok {
		return filter, false
	}
	filter.HostelID = hostelID

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			_ = badRequest(c, "invalid from date")
			return filter, false
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			_ = badRequest(c, "invalid to date")
			return filter, false
		}
		filter.To = &to
	}

	return filter, true
}

func (h *AnalyticsHandler) categories(c *fiber.Ctx) error {
	filter, ok := h.parseFilter(c)
	if !ok {
		return nil
	}

	breakdown, err := h.analyticsService.CategoryBreakdown(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"categories": breakdown})
}

func (h *AnalyticsHandler) rooms(c *fiber.Ctx) error {
	filter, ok := h.parseFilter(c)
	if !ok {
		return nil
	}

	summaries, err := h.analyticsService.RoomSummaries(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"rooms": summaries})
}

func (h *AnalyticsHandler) hostels(c *fiber.Ctx) error {
	filter, ok := h.parseFilter(c)
	if !ok {
		return nil
	}

	summaries, err := h.analyticsService.HostelSummaries(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"hostels": summaries})
}

func (h *AnalyticsHandler) resolution(c *fiber.Ctx) error {
	filter, ok := h.parseFilter(c)
	if !ok {
		return nil
	}

	stats, err := h.analyticsService.ResolutionReport(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"resolution": stats})
}

func (h *AnalyticsHandler) trend(c *fiber.Ctx) error {
	filter, ok := h.parseFilter(c)
	if !ok {
		return nil
	}

	trend, err := h.analyticsService.MonthlyTrend(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"trend": trend})
}

func (h *AnalyticsHandler) availability(c *fiber.Ctx) error {
	filter, ok := h.parseFilter(c)
	if !ok {
		return nil
	}

	entries, err := h.analyticsService.RoomAvailability(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"availability": entries})
}
