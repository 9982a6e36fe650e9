package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/eaglebank/user-accounts/shared/cqrs"
	"github.com/eaglebank/user-accounts/shared/middleware"
	"github.com/eaglebank/user-accounts/shared/models"
	"github.com/gin-gonic/gin"
)

const (
	msgInvalidBody   = "Invalid request body"
	msgInvalidUserID = "Invalid user id"
	msgUserDeleted   = "User was deleted"
)

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	CreateUser(context.Context, cqrs.CreateUserCommand) (*models.UserView, error)
	UpdateUser(context.Context, cqrs.UpdateUserCommand) (*models.UserView, error)
	DeleteUser(context.Context, cqrs.DeleteUserCommand) error
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	GetUser(context.Context, cqrs.GetUserQuery) (*models.UserView, error)
}

// UserHandler routes requests to the command or query service as appropriate.
type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
	now      func() time.Time
}

func NewUserHandler(commands UserCommander, queries UserQuerier) *UserHandler {
	return &UserHandler{commands: commands, queries: queries, now: time.Now}
}

// Register mounts the four user routes on group.
func (h *UserHandler) Register(group *gin.RouterGroup) {
	group.POST("", h.CreateUser)
	group.GET("/:userId", h.GetUser)
	group.PATCH("/:userId", h.UpdateUser)
	group.DELETE("/:userId", h.DeleteUser)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if validationErrors := req.Validate(h.today()); len(validationErrors) > 0 {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.commands.CreateUser(c.Request.Context(), cqrs.CreateUserCommand{
		Username:  req.Username,
		Gender:    req.Gender,
		BirthDate: req.BirthDate.Date,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	view, err := h.queries.GetUser(c.Request.Context(), cqrs.GetUserQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if validationErrors := req.Validate(h.today()); len(validationErrors) > 0 {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.commands.UpdateUser(c.Request.Context(), cqrs.UpdateUserCommand{
		UserID:    userID,
		Gender:    req.Gender,
		BirthDate: req.BirthDate.Ptr(),
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.commands.DeleteUser(c.Request.Context(), cqrs.DeleteUserCommand{UserID: userID}); err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.String(http.StatusOK, msgUserDeleted)
}

func (h *UserHandler) today() models.Date {
	return models.DateOf(h.now())
}

// parseUserID writes a 400 and returns false when the path id is not an integer.
func parseUserID(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, msgInvalidUserID)
		return 0, false
	}
	return userID, true
}
