package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/remote"
)

func (s *Server) routes() {
	s.Echo.GET(remote.PathHealth, s.handleHealth)
	s.Echo.GET(remote.PathDeals, s.handleListDeals)
	s.Echo.PATCH(remote.PathDealStage, s.handleUpdateStage, s.faults.Middleware())
	s.Echo.GET(remote.PathPendingNotification, s.handlePendingNotifications)
	s.Echo.POST(remote.PathMarkRead, s.handleMarkRead)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func fail(c echo.Context, status int, reason, msg string) error {
	return c.JSON(status, remote.ErrorResponse{Error: msg, Reason: reason})
}

// scopeFromQuery reads the viewer from ?user=&role=. An empty role means
// sales, which requires a user.
func scopeFromQuery(c echo.Context) (deal.Scope, error) {
	scope := deal.Scope{
		UserID: strings.TrimSpace(c.QueryParam("user")),
		Role:   deal.Role(strings.ToLower(strings.TrimSpace(c.QueryParam("role")))),
	}
	switch scope.Role {
	case deal.RoleAdmin:
	case deal.RoleSales, "":
		scope.Role = deal.RoleSales
		if scope.UserID == "" {
			return scope, errors.New("user is required for the sales role")
		}
	default:
		return scope, errors.New("unknown role " + string(scope.Role))
	}
	return scope, nil
}

func (s *Server) handleListDeals(c echo.Context) error {
	scope, err := scopeFromQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, remote.ReasonBadRequest, err.Error())
	}
	deals, err := s.store.ListDeals(c.Request().Context(), scope)
	if err != nil {
		s.logger.Error("list deals failed", "error", err)
		return fail(c, http.StatusInternalServerError, "", err.Error())
	}
	return c.JSON(http.StatusOK, remote.DealsResponse{Deals: deals})
}

func (s *Server) handleUpdateStage(c echo.Context) error {
	id := c.Param("id")
	var req remote.StageUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, remote.ReasonBadRequest, "invalid request body")
	}

	d, err := s.store.UpdateStage(c.Request().Context(), id, req.Stage)
	switch {
	case errors.Is(err, ErrInvalidStage):
		return fail(c, http.StatusUnprocessableEntity, remote.ReasonInvalidStage, err.Error())
	case errors.Is(err, ErrDealNotFound):
		return fail(c, http.StatusNotFound, remote.ReasonNotFound, err.Error())
	case err != nil:
		s.logger.Error("update stage failed", "deal_id", id, "error", err)
		return fail(c, http.StatusInternalServerError, "", err.Error())
	}

	s.logger.Info("stage updated", "deal_id", id, "stage", d.Stage)
	return c.JSON(http.StatusOK, remote.StageUpdateResponse{Deal: d})
}

func (s *Server) handlePendingNotifications(c echo.Context) error {
	scope, err := scopeFromQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, remote.ReasonBadRequest, err.Error())
	}
	notes, err := s.store.PendingNotifications(c.Request().Context(), scope)
	if err != nil {
		s.logger.Error("pending notifications failed", "error", err)
		return fail(c, http.StatusInternalServerError, "", err.Error())
	}
	return c.JSON(http.StatusOK, remote.NotificationsResponse{Notifications: notes})
}

func (s *Server) handleMarkRead(c echo.Context) error {
	scope, err := scopeFromQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, remote.ReasonBadRequest, err.Error())
	}
	var req remote.MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, remote.ReasonBadRequest, "invalid request body")
	}
	if err := s.store.MarkRead(c.Request().Context(), scope, req.IDs); err != nil {
		s.logger.Error("mark read failed", "error", err)
		return fail(c, http.StatusInternalServerError, "", err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
