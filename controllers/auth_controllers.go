package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/middlewares"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

var errInvalidCredentials = errors.New("invalid credentials")

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// Login -> POST /admin/login, returns a JWT
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	var admin models.AdminUser
	if err := ac.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&admin).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(input.Password)); err != nil {
		utils.InfoLogger.WithFields(logrus.Fields{
			"email": admin.Email,
			"ip":    c.ClientIP(),
		}).Warn("failed admin login")
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}

	token, expiresAt, err := utils.GenerateToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := ac.DB.Model(&admin).Update("last_login_at", time.Now()).Error; err != nil {
		utils.ErrorLogger.WithField("email", admin.Email).WithError(err).Error("failed to record last login")
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"email": admin.Email,
		"role":  admin.Role,
	}).Info("admin logged in")

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"admin": gin.H{
			"id":    admin.ID,
			"name":  admin.Name,
			"email": admin.Email,
			"role":  admin.Role,
		},
	})
}

// Logout -> POST /admin/logout, revokes the presented token
func (ac *AuthController) Logout(c *gin.Context) {
	token := c.GetString(middlewares.ContextToken)
	if token == "" {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("no token in request"))
		return
	}

	until := time.Now().Add(24 * time.Hour)
	if v, ok := c.Get(middlewares.ContextTokenExpiry); ok {
		if t, ok := v.(time.Time); ok {
			until = t
		}
	}
	utils.BlacklistToken(token, until)

	utils.InfoLogger.WithField("email", c.GetString(middlewares.ContextAdminEmail)).Info("admin logged out")
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> GET /admin/profile
func (ac *AuthController) GetProfile(c *gin.Context) {
	adminID := middlewares.AdminID(c)
	if adminID == 0 {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("admin id not found in context"))
		return
	}

	var admin models.AdminUser
	if err := ac.DB.First(&admin, adminID).Error; err != nil {
		respondDBError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", admin)
}
