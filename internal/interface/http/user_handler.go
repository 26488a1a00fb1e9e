package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-resource-api/internal/application"
	"github.com/oksasatya/go-user-resource-api/pkg/response"
	"github.com/oksasatya/go-user-resource-api/pkg/validation"
)

const msgUserNotFound = "User not found"

type UserHandler struct {
	Svc    *userapp.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// List handles GET /api/users?page=&per_page=. Unparseable values fall back to the defaults.
func (h *UserHandler) List(c *gin.Context) {
	page := queryInt(c, "page")
	perPage := queryInt(c, "per_page")

	p, err := h.Svc.List(c.Request.Context(), page, perPage)
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		response.Internal(c, "Failed to fetch users", err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

func (h *UserHandler) Search(c *gin.Context) {
	hits, err := h.Svc.Search(c.Request.Context(), c.Query("q"), queryInt(c, "size"))
	if err != nil {
		h.Logger.WithError(err).Error("search users failed")
		response.Internal(c, "Failed to search users", err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"data": hits})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusNotFound, msgUserNotFound)
		return
	}
	u, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch user")
		return
	}
	response.JSON(c, http.StatusOK, u)
}

func (h *UserHandler) Create(c *gin.Context) {
	var in userapp.CreateUserInput
	fe, ok := bindFields(c, &in)
	if !ok {
		return
	}
	in.BindErrors = fe
	u, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "Error creating user")
		return
	}
	response.JSON(c, http.StatusCreated, u)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusNotFound, msgUserNotFound)
		return
	}
	// 404 wins over a malformed body
	if _, err := h.Svc.Get(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Error updating user")
		return
	}
	var in userapp.UpdateUserInput
	fe, ok := bindFields(c, &in)
	if !ok {
		return
	}
	in.BindErrors = fe
	u, err := h.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err, "Error updating user")
		return
	}
	response.JSON(c, http.StatusOK, u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusNotFound, msgUserNotFound)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to delete user")
		return
	}
	response.NoContent(c)
}

// bindFields decodes the body key by key. Per-field type errors are returned
// for the service to report with the rest; payload-level errors are answered here.
func bindFields(c *gin.Context, dst any) (validation.FieldErrors, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		response.Validation(c, validation.ToFieldErrors(err))
		return nil, false
	}
	fe, err := validation.DecodeJSON(raw, dst)
	if err != nil {
		response.Validation(c, validation.ToFieldErrors(err))
		return nil, false
	}
	return fe, true
}

// fail maps service errors onto the response envelopes.
func (h *UserHandler) fail(c *gin.Context, err error, internalMsg string) {
	if ve, ok := userapp.AsValidation(err); ok {
		response.Validation(c, ve.Fields)
		return
	}
	if errors.Is(err, userapp.ErrUserNotFound) {
		response.Error(c, http.StatusNotFound, msgUserNotFound)
		return
	}
	h.Logger.WithError(err).WithField("path", c.FullPath()).Error(internalMsg)
	response.Internal(c, internalMsg, err)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
