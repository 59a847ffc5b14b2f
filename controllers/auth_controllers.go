package controllers

import (
	"errors"
	"strconv"

	"github.com/tableserve/tableserve/config"
	"github.com/tableserve/tableserve/middlewares"
	"github.com/tableserve/tableserve/models"
	"github.com/tableserve/tableserve/router"
	"github.com/tableserve/tableserve/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthController handles staff login and identity lookups.
type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

func (ac *AuthController) Login(req *router.Request, _ router.Params) *router.Response {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := req.Bind(&input); err != nil || input.Email == "" || input.Password == "" {
		return router.BadRequest("Email and password required")
	}

	var admin models.Admin
	if err := ac.DB.Where("email = ?", input.Email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return router.Unauthorized("Invalid credentials")
		}
		return router.ServerError("Login failed")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		return router.Unauthorized("Invalid credentials")
	}

	token, err := utils.GenerateToken(ac.Cfg, admin.ID, admin.Email, admin.Role)
	if err != nil {
		utils.ErrorLogger.Errorf("token generation failed for %s: %v", admin.Email, err)
		return router.ServerError("Login failed")
	}

	utils.InfoLogger.Printf("Staff login: %s (role=%s)", admin.Email, admin.Role)

	return router.Success(map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    strconv.FormatUint(uint64(admin.ID), 10),
			"email": admin.Email,
			"name":  admin.Name,
			"role":  admin.Role,
		},
	})
}

// Logout is stateless: the client discards the token.
func (ac *AuthController) Logout(req *router.Request, _ router.Params) *router.Response {
	return router.Success(nil, "Logged out successfully")
}

func (ac *AuthController) Me(req *router.Request, _ router.Params) *router.Response {
	userID := req.AttrString(middlewares.UserIDAttr)
	if userID == "" {
		return router.Unauthorized("Authentication required")
	}

	id, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		return router.Unauthorized("Invalid token")
	}

	var admin models.Admin
	if err := ac.DB.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return router.NotFound("User not found")
		}
		return router.ServerError("Failed to load profile")
	}

	return router.Success(map[string]interface{}{
		"id":    strconv.FormatUint(uint64(admin.ID), 10),
		"email": admin.Email,
		"name":  admin.Name,
		"role":  admin.Role,
	})
}
