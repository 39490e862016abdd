package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
	"github.com/muhammadolammi/careeradvisor/internal/report"
)

func (h *Handler) submitReport(c echo.Context) error {
	var contact report.Contact
	if err := c.Bind(&contact); err != nil {
		return badRequest(c, "invalid request body")
	}
	s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	sub, err := h.reports.Submit(c.Request().Context(), s.ID(), contact, s.Advice())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusAccepted, sub)
}

func (h *Handler) reportStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return h.fail(c, domain.ErrNotFound)
	}
	sub, err := h.reports.Status(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}
