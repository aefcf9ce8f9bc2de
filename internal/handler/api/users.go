package api

import (
	"github.com/labstack/echo/v4"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	xlogger "MarketLens/pkg/logger"
)

// UsersHandler serves account registration.
type UsersHandler struct {
	logger *xlogger.Logger
	users  *usecase.UsersUsecase
}

// NewUsersHandler creates a UsersHandler.
func NewUsersHandler(logger *xlogger.Logger, users *usecase.UsersUsecase) *UsersHandler {
	return &UsersHandler{logger: logger, users: users}
}

// RegisterRoutes mounts user routes.
func (h *UsersHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/users")
	g.POST("", h.Register)
	g.GET("/me", h.Me)
}

// Register stores the caller's account and sends the welcome email.
func (h *UsersHandler) Register(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return xhttp.UnauthorizedResponse(c, "user id required")
	}

	req := &models.RegisterUserRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	user := &models.User{ID: uid, Email: req.Email, Name: req.Name}
	if err := h.users.Register(c.Request().Context(), user); err != nil {
		h.logger.Error("user register error", xlogger.String("user_id", uid), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, user)
}

// Me returns the caller's account.
func (h *UsersHandler) Me(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return xhttp.UnauthorizedResponse(c, "user id required")
	}

	user, err := h.users.Get(c.Request().Context(), uid)
	if err != nil {
		return xhttp.NotFoundResponse(c, "user not found")
	}
	return xhttp.SuccessResponse(c, user)
}
