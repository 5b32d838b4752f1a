package v1

import (
	"net/http"

	"go-profile-backend/internal/delivery/http/response"
	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(public, protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	publicProfile := public.Group("/profile")
	{
		publicProfile.GET("/all", handler.List)
		publicProfile.GET("/handle/:handle", handler.GetByHandle)
		publicProfile.GET("/user/:user_id", handler.GetByUserID)
	}

	protectedProfile := protected.Group("/profile")
	{
		protectedProfile.GET("", handler.GetMine)
		protectedProfile.POST("", handler.Upsert)
		protectedProfile.DELETE("", handler.DeleteAccount)
		protectedProfile.POST("/experience", handler.AddExperience)
		protectedProfile.DELETE("/experience/:exp_id", handler.RemoveExperience)
		protectedProfile.POST("/education", handler.AddEducation)
		protectedProfile.DELETE("/education/:edu_id", handler.RemoveEducation)
	}
}

// GetMine godoc
// @Summary      Get current user's profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profile [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetMine(c *gin.Context) {
	profile, err := h.profileUC.GetMine(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile", profile)
}

// GetByHandle godoc
// @Summary      Get profile by handle
// @Tags         profile
// @Produce      json
// @Param        handle  path  string  true  "Profile handle"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      404  {object}  response.Response
// @Router       /profile/handle/{handle} [get]
func (h *ProfileHandler) GetByHandle(c *gin.Context) {
	profile, err := h.profileUC.GetByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile", profile)
}

// GetByUserID godoc
// @Summary      Get profile by user id
// @Tags         profile
// @Produce      json
// @Param        user_id  path  string  true  "User ID"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      404  {object}  response.Response
// @Router       /profile/user/{user_id} [get]
func (h *ProfileHandler) GetByUserID(c *gin.Context) {
	profile, err := h.profileUC.GetByUserID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile", profile)
}

// List godoc
// @Summary      List all profiles
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Profile}
// @Router       /profile/all [get]
func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.profileUC.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profiles", profiles)
}

// Upsert godoc
// @Summary      Create or update current user's profile
// @Description  Only the fields present in the body are written. Social links are always replaced.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request  body  domain.ProfileInput  true  "Profile fields"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /profile [post]
// @Security     BearerAuth
func (h *ProfileHandler) Upsert(c *gin.Context) {
	var in domain.ProfileInput
	if !bindJSON(c, &in) {
		return
	}
	profile, err := h.profileUC.Upsert(c.Request.Context(), c.GetString(string(domain.KeyUserID)), in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile saved", profile)
}

// AddExperience godoc
// @Summary      Add an experience entry
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request  body  domain.ExperienceInput  true  "Experience"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profile/experience [post]
// @Security     BearerAuth
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	var in domain.ExperienceInput
	if !bindJSON(c, &in) {
		return
	}
	profile, err := h.profileUC.AddExperience(c.Request.Context(), c.GetString(string(domain.KeyUserID)), in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Experience added", profile)
}

// RemoveExperience godoc
// @Summary      Remove an experience entry
// @Description  Unknown ids leave the profile unchanged.
// @Tags         profile
// @Produce      json
// @Param        exp_id  path  string  true  "Experience ID"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      404  {object}  response.Response
// @Router       /profile/experience/{exp_id} [delete]
// @Security     BearerAuth
func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	profile, err := h.profileUC.RemoveExperience(c.Request.Context(), c.GetString(string(domain.KeyUserID)), c.Param("exp_id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Experience removed", profile)
}

// AddEducation godoc
// @Summary      Add an education entry
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request  body  domain.EducationInput  true  "Education"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profile/education [post]
// @Security     BearerAuth
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	var in domain.EducationInput
	if !bindJSON(c, &in) {
		return
	}
	profile, err := h.profileUC.AddEducation(c.Request.Context(), c.GetString(string(domain.KeyUserID)), in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Education added", profile)
}

// RemoveEducation godoc
// @Summary      Remove an education entry
// @Tags         profile
// @Produce      json
// @Param        edu_id  path  string  true  "Education ID"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      404  {object}  response.Response
// @Router       /profile/education/{edu_id} [delete]
// @Security     BearerAuth
func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	profile, err := h.profileUC.RemoveEducation(c.Request.Context(), c.GetString(string(domain.KeyUserID)), c.Param("edu_id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Education removed", profile)
}

// DeleteAccount godoc
// @Summary      Delete profile and user account
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /profile [delete]
// @Security     BearerAuth
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	if err := h.profileUC.DeleteAccount(c.Request.Context(), c.GetString(string(domain.KeyUserID))); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted", nil)
}

// bindJSON decodes the body into dst. A malformed body is reported as a 400.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return false
	}
	return true
}
