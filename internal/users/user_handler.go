package users

import (
	"net/http"
	"strconv"

	custom_error "github.com/Josiascalt/tac-inventory-sys/pkg/errors"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"
	"github.com/Josiascalt/tac-inventory-sys/pkg/security"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type UsersHandler struct {
	Repository UserRepository
}

func NewHandler(r UserRepository) *UsersHandler {
	return &UsersHandler{Repository: r}
}

func (h *UsersHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("/users")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.POST("", security.Authorize("admin"), h.RegisterUser)
		protectedRoutes.PATCH("/:id", security.Authorize("user"), h.UpdateUser)
		protectedRoutes.GET("/:id", security.Authorize("user"), h.GetUser)
		protectedRoutes.GET("", security.Authorize("admin"), h.GetUserList)
	}
}

func (h *UsersHandler) RegisterUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	err = h.Repository.PersistUser(req, hashedPassword)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Username already taken", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// UpdateUser lets a user change their own record; changing someone else's
// record or any role requires admin.
func (h *UsersHandler) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID", "details": err.Error()})
		return
	}

	if !h.isAllowed(c, userID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "You are not allowed to access this resource"})
		return
	}
	if req.Role != nil && !security.IsAllowed(c, "admin") {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "Only admins can change roles"})
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user", "details": err.Error()})
		return
	}
	if user == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unable to find user", "code": "USER_NOT_FOUND"})
		return
	}

	changes := &models.UserChanges{}

	if req.Fullname != nil && *req.Fullname != user.Fullname {
		changes.Fullname = req.Fullname
	}

	if req.Password != nil && *req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		passwordHash := string(hashedPassword)
		changes.PasswordHash = &passwordHash
	}

	if req.Role != nil && *req.Role != user.Role {
		changes.Role = req.Role
	}

	if !changes.HasChanges() {
		c.JSON(http.StatusOK, user)
		return
	}

	if err := h.Repository.UpdateUser(userID, changes); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user", "details": err.Error()})
		return
	}

	updatedUser, err := h.Repository.GetUser(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to get updated user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updatedUser)
}

func (h *UsersHandler) GetUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID", "details": err.Error()})
		return
	}

	if !h.isAllowed(c, userID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "You are not allowed to access this resource"})
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user", "details": err.Error()})
		return
	}
	if user == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unable to find user", "code": "USER_NOT_FOUND"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) GetUserList(c *gin.Context) {
	users, err := h.Repository.GetUsers()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// isAllowed grants access to a user's own record, or to admins.
func (h *UsersHandler) isAllowed(c *gin.Context, userID int) bool {
	authID, err := security.CurrentUserID(c)
	if err != nil {
		return false
	}

	return authID == userID || security.IsAllowed(c, "admin")
}
