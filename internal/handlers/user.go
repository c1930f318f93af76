package handlers

import (
	"errors"
	"log"
	"net/http"

	"accounts/internal/auth"
	"accounts/internal/dto"
	"accounts/internal/service"

	"github.com/gin-gonic/gin"
)

// updateAtLayout keeps update_at human-readable (en-US locale style).
const updateAtLayout = "1/2/2006, 3:04:05 PM"

// UserHandler handles the profile endpoints.
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Profile godoc
// @Summary      Get own profile
// @Tags         user
// @Produce      json
// @Param        Session-Key  header  string  true  "Session key"
// @Success      200  {object}  dto.ProfileResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /user [get]
func (h *UserHandler) Profile(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	p, err := h.svc.Profile(c.Request.Context(), userID)
	if err != nil {
		// A session may outlive its user; answer like any other bad session.
		if errors.Is(err, service.ErrUserGone) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		log.Printf("profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{
		Name:     p.Name,
		Email:    p.Email,
		UpdateAt: p.UpdatedAt.Format(updateAtLayout),
	})
}

// Update godoc
// @Summary      Update own profile
// @Description  Partial update: name, email and password are each optional, but at least one is required.
// @Tags         user
// @Accept       json
// @Param        Session-Key  header  string  true  "Session key"
// @Param        body  body  dto.UpdateProfileRequest  true  "Fields to change"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /user [patch]
func (h *UserHandler) Update(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.UpdateProfile(c.Request.Context(), userID, service.ProfilePatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyUpdate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "update body is empty"})
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "field must not be blank"})
			return
		}
		if errors.Is(err, service.ErrUserGone) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already taken"})
			return
		}
		log.Printf("update profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.Status(http.StatusOK)
}
