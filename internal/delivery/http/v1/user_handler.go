package v1

import (
	"net/http"

	"go-profile-backend/internal/delivery/http/response"
	"go-profile-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authUC domain.AuthUsecase
}

// NewUserHandler mounts register and login on public and the current-user
// lookup on protected. authLimit guards the credential endpoints.
func NewUserHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, authLimit gin.HandlerFunc) {
	handler := &UserHandler{authUC: authUC}

	publicUsers := public.Group("/users")
	publicUsers.Use(authLimit)
	{
		publicUsers.POST("/register", handler.Register)
		publicUsers.POST("/login", handler.Login)
	}

	protected.GET("/users/current", handler.Current)
}

// Register godoc
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body  domain.RegisterInput  true  "Registration"
// @Success      201  {object}  response.Response{data=domain.User}
// @Failure      400  {object}  response.Response
// @Router       /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var in domain.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.authUC.Register(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "User registered", user)
}

// Login godoc
// @Summary      Log in and receive a bearer token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body  domain.LoginInput  true  "Credentials"
// @Success      200  {object}  response.Response{data=domain.AuthToken}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var in domain.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	token, err := h.authUC.Login(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Login successful", token)
}

// Current godoc
// @Summary      Get the authenticated user
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /users/current [get]
// @Security     BearerAuth
func (h *UserHandler) Current(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Current user", user)
}
