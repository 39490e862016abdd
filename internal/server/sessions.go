package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
	"github.com/muhammadolammi/careeradvisor/internal/shell"
)

func (h *Handler) session(c echo.Context) (*shell.Shell, error) {
	return h.sessions.Get(c.Param("id"))
}

// withSession runs fn on the addressed session and replies with its snapshot.
func (h *Handler) withSession(c echo.Context, fn func(s *shell.Shell) error) error {
	s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := fn(s); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, s.Snapshot())
}

func (h *Handler) createSession(c echo.Context) error {
	s := h.sessions.Create()
	if err := s.Start(); err != nil {
		return h.fail(c, err)
	}
	h.log.Info("session created", "session", s.ID())
	return c.JSON(http.StatusCreated, s.Snapshot())
}

func (h *Handler) getSession(c echo.Context) error {
	return h.withSession(c, func(*shell.Shell) error { return nil })
}

// endSession discards the session. Eviction stops its audio.
func (h *Handler) endSession(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	h.sessions.Delete(s.ID().String())
	h.log.Info("session ended", "session", s.ID())
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) startInterview(c echo.Context) error {
	return h.withSession(c, func(s *shell.Shell) error { return s.Start() })
}

type branchRequest struct {
	Branch domain.Branch `json:"branch" validate:"required"`
}

func (h *Handler) chooseBranch(c echo.Context) error {
	var req branchRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	return h.withSession(c, func(s *shell.Shell) error {
		return s.ChooseBranch(c.Request().Context(), req.Branch)
	})
}

type speedRequest struct {
	Speed domain.Speed `json:"speed" validate:"required"`
}

func (h *Handler) setSpeed(c echo.Context) error {
	var req speedRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	return h.withSession(c, func(s *shell.Shell) error { return s.SetSpeed(req.Speed) })
}

type audioRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *Handler) setAudio(c echo.Context) error {
	var req audioRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	return h.withSession(c, func(s *shell.Shell) error {
		s.SetAudio(req.Enabled)
		return nil
	})
}

func (h *Handler) turnPlayed(c echo.Context) error {
	turnID, err := strconv.Atoi(c.Param("turn"))
	if err != nil {
		return badRequest(c, "invalid turn id")
	}
	s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	s.TurnPlayed(turnID)
	return c.NoContent(http.StatusNoContent)
}

type simulationRequest struct {
	Career string `json:"career" validate:"required"`
}

func (h *Handler) startSimulation(c echo.Context) error {
	var req simulationRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	return h.withSession(c, func(s *shell.Shell) error {
		return s.StartSimulation(c.Request().Context(), req.Career)
	})
}

func (h *Handler) restartSimulation(c echo.Context) error {
	return h.withSession(c, func(s *shell.Shell) error {
		return s.RestartSimulation(c.Request().Context())
	})
}

func (h *Handler) beginSimulation(c echo.Context) error {
	return h.withSession(c, func(s *shell.Shell) error { return s.BeginSimulation() })
}

type draftRequest struct {
	Text string `json:"text"`
}

func (h *Handler) simulationDraft(c echo.Context) error {
	var req draftRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	return h.withSession(c, func(s *shell.Shell) error { return s.SetSimulationDraft(req.Text) })
}

type taskAnswerRequest struct {
	Answer string `json:"answer"`
}

func (h *Handler) submitTask(c echo.Context) error {
	var req taskAnswerRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	return h.withSession(c, func(s *shell.Shell) error {
		return s.SubmitTask(c.Request().Context(), req.Answer)
	})
}

func (h *Handler) backToResults(c echo.Context) error {
	return h.withSession(c, func(s *shell.Shell) error { return s.BackToResults() })
}

func (h *Handler) reset(c echo.Context) error {
	return h.withSession(c, func(s *shell.Shell) error {
		s.Reset()
		return nil
	})
}
