package config

import (
	measurementHandler "SizeMeasurement/internal/api/measurement/handler"
	measurementService "SizeMeasurement/internal/api/measurement/service"
	"SizeMeasurement/internal/middleware"
	"SizeMeasurement/internal/sizing"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type ServerOption func(*Server) error

type Server struct {
	engine     *fiber.App
	log        *logrus.Logger
	middleware middleware.Middleware
	validator  *validator.Validate
	calculator *sizing.Calculator
	settings   Settings
	handlers   []handler
	mounted    bool
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{
		settings: Settings{AppPort: "3000", RateLimitRPS: 50, RateLimitBurst: 100},
	}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.calculator == nil {
		server.calculator = sizing.NewCalculator(sizing.WithKeptFields(server.settings.KeepFields...))
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithSettings(settings Settings) ServerOption {
	return func(s *Server) error {
		s.settings = settings
		return nil
	}
}

func WithCalculator(calculator *sizing.Calculator) ServerOption {
	return func(s *Server) error {
		s.calculator = calculator
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, rate.Limit(s.settings.RateLimitRPS), s.settings.RateLimitBurst)
		return nil
	}
}

func (s *Server) RegisterHandler() {
	if s.middleware == nil {
		s.middleware = middleware.New(s.log, rate.Limit(s.settings.RateLimitRPS), s.settings.RateLimitBurst)
	}

	// Measurement
	measurementServices := measurementService.NewMeasurementService(s.log, s.calculator)
	measurementHandlers := measurementHandler.New(s.log, s.validator, s.middleware, measurementServices)

	s.handlers = append(s.handlers, measurementHandlers)
}

func (s *Server) mount() {
	if s.mounted {
		return
	}
	s.mounted = true

	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	s.setupHealthCheck()

	router := s.engine.Group("/api/v1")
	for _, h := range s.handlers {
		h.Start(router)
	}
}

func (s *Server) Run() error {
	s.mount()
	return s.engine.Listen(fmt.Sprintf(":%s", s.settings.AppPort))
}

func (s *Server) Shutdown() error {
	return s.engine.Shutdown()
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
