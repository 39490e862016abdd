// Package server exposes the session state machines, report submission and
// the standalone advisory tools over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/muhammadolammi/careeradvisor/internal/advisor"
	"github.com/muhammadolammi/careeradvisor/internal/domain"
	"github.com/muhammadolammi/careeradvisor/internal/logger"
	"github.com/muhammadolammi/careeradvisor/internal/report"
	"github.com/muhammadolammi/careeradvisor/internal/shell"
)

// Reports submits and tracks webhook report deliveries.
type Reports interface {
	Submit(ctx context.Context, sessionID uuid.UUID, contact report.Contact, advice *domain.AdviceResult) (report.Submission, error)
	Status(ctx context.Context, id uuid.UUID) (report.Submission, error)
}

// Attachments stores uploaded answer images.
type Attachments interface {
	Put(ctx context.Context, key, mime string, data []byte) error
	Delete(ctx context.Context, key string) error
}

type Handler struct {
	sessions    *shell.Registry
	advisor     advisor.Service
	reports     Reports
	attachments Attachments
	stream      echo.HandlerFunc
	log         *logger.Logger
}

type Deps struct {
	Sessions    *shell.Registry
	Advisor     advisor.Service
	Reports     Reports
	Attachments Attachments
	// Stream serves the session event websocket. Optional.
	Stream echo.HandlerFunc
	Log    *logger.Logger
}

func NewHandler(d Deps) *Handler {
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	return &Handler{
		sessions:    d.Sessions,
		advisor:     d.Advisor,
		reports:     d.Reports,
		attachments: d.Attachments,
		stream:      d.Stream,
		log:         d.Log,
	}
}

type requestValidator struct {
	v *validator.Validate
}

func (r *requestValidator) Validate(i interface{}) error {
	return r.v.Struct(i)
}

// New builds the echo instance with middleware and every route registered.
func New(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{v: validator.New()}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			h.log.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("25M"))

	h.RegisterRoutes(e)
	return e
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.handleHealth)

	api := e.Group("/api")

	s := api.Group("/sessions")
	s.POST("", h.createSession)
	s.GET("/:id", h.getSession)
	s.DELETE("/:id", h.endSession)
	s.POST("/:id/start", h.startInterview)
	s.POST("/:id/branch", h.chooseBranch)
	s.POST("/:id/answers", h.answer)
	s.PUT("/:id/speed", h.setSpeed)
	s.POST("/:id/audio", h.setAudio)
	s.POST("/:id/turns/:turn/played", h.turnPlayed)
	s.POST("/:id/simulation", h.startSimulation)
	s.POST("/:id/simulation/restart", h.restartSimulation)
	s.POST("/:id/simulation/begin", h.beginSimulation)
	s.PUT("/:id/simulation/draft", h.simulationDraft)
	s.POST("/:id/simulation/answers", h.submitTask)
	s.POST("/:id/back", h.backToResults)
	s.POST("/:id/reset", h.reset)
	s.POST("/:id/report", h.submitReport)

	api.GET("/reports/:id", h.reportStatus)
	api.POST("/assessments", h.assessment)
	api.POST("/assessments/evaluate", h.evaluateAssessment)
	api.POST("/side-hustles", h.sideHustles)

	if h.stream != nil {
		e.GET("/ws/sessions/:id", h.stream)
	}
}

func (h *Handler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"sessions": h.sessions.Len(),
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// fail maps err onto a status code.
func (h *Handler) fail(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case domain.IsValidation(err):
		code = http.StatusBadRequest
	case domain.IsConflict(err):
		code = http.StatusConflict
	case errors.Is(err, domain.ErrTimeout):
		code = http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, domain.ErrRequestFailed),
		errors.Is(err, domain.ErrUnsupportedTaskKind):
		code = http.StatusBadGateway
	}
	if code >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.Path(), "status", code, "error", err)
	}
	return c.JSON(code, errorResponse{Error: err.Error()})
}

var errInvalidBody = errors.New("invalid request body")

// bind decodes and validates the request body into req.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	return c.Validate(req)
}
