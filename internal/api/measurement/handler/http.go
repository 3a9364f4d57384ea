package measurementHandler

import (
	measurementService "SizeMeasurement/internal/api/measurement/service"
	"SizeMeasurement/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"time"
)

type MeasurementHandler struct {
	log                *logrus.Logger
	validator          *validator.Validate
	middleware         middleware.Middleware
	measurementService measurementService.IMeasurementService
	requestTimeout     time.Duration
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ms measurementService.IMeasurementService,
) *MeasurementHandler {
	return &MeasurementHandler{
		measurementService: ms,
		log:                log,
		validator:          validator,
		middleware:         middleware,
		requestTimeout:     10 * time.Second,
	}
}

func (h *MeasurementHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	measurement := srv.Group("/measurement")
	measurement.Post("/size", h.middleware.NewRateLimiter, h.MeasureSize)
	measurement.Use("/ws", h.middleware.NewRateLimiter, wsMiddleware)
	measurement.Get("/ws", websocket.New(h.handleMeasurementWebSocket))
}
