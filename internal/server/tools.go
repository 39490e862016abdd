package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
)

type assessmentRequest struct {
	Career string            `json:"career" validate:"required"`
	Level  domain.SkillLevel `json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
}

func (h *Handler) assessment(c echo.Context) error {
	var req assessmentRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	questions, err := h.advisor.Assessment(c.Request().Context(), req.Career, req.Level)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"questions": questions})
}

type evaluateRequest struct {
	Career  string                    `json:"career" validate:"required"`
	Answers []domain.AssessmentAnswer `json:"answers" validate:"required,min=1"`
}

func (h *Handler) evaluateAssessment(c echo.Context) error {
	var req evaluateRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	result, err := h.advisor.EvaluateAssessment(c.Request().Context(), req.Career, req.Answers)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

type sideHustleRequest struct {
	Career string            `json:"career" validate:"required"`
	Level  domain.SkillLevel `json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
	Skills domain.SkillSet   `json:"skills"`
}

func (h *Handler) sideHustles(c echo.Context) error {
	var req sideHustleRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	hustles, err := h.advisor.SideHustles(c.Request().Context(), req.Career, req.Level, req.Skills)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"sideHustles": hustles})
}
