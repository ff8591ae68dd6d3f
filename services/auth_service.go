package services

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"hunter-progression-system/middleware"
	"hunter-progression-system/models"
	"hunter-progression-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewAuthService(db *gorm.DB, progression *ProgressionService) *AuthService {
	return &AuthService{DB: db, Progression: progression}
}

// Register creates a hunter account plus its progress record.
func (s *AuthService) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username" validate:"required,min=3,max=80"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "username, email and a password of at least 8 characters are required",
		})
	}

	var count int64
	s.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "username already exists"})
	}
	s.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already registered"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to hash password"})
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create account", "cause": err.Error()})
	}

	if _, err := s.Progression.EnsureProgressRecord(user.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create progress record", "cause": err.Error()})
	}

	log.Printf("✅ New hunter registered: %s", user.Username)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "account created, welcome Hunter",
		"user":    user,
	})
}

// Login verifies credentials, advances the login streak and issues a JWT.
func (s *AuthService) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}

	var user models.User
	err := s.DB.Where("username = ? OR email = ?", req.Username, strings.ToLower(req.Username)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid username or password"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid username or password"})
	}

	// One streak update per session-start; same-day repeats are no-ops.
	streak, err := s.Progression.UpdateLoginStreak(user.ID, time.Now())
	if err != nil {
		// A missing progress row should not lock a hunter out
		log.Printf("⚠️  Login streak update failed for %s: %v", user.ID, err)
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to sign token"})
	}

	log.Printf("👤 Hunter logged in: %s (streak %d)", user.Username, streak)
	return c.JSON(fiber.Map{
		"message":      "welcome back, Hunter",
		"token":        token,
		"user":         user,
		"login_streak": streak,
	})
}

// GetProfile returns the authenticated hunter's account.
func (s *AuthService) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "account not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}
	return c.JSON(user)
}

// UpdateProfile updates username/email/password for the authenticated hunter.
func (s *AuthService) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "account not found"})
	}

	if req.Username != nil && *req.Username != user.Username {
		var count int64
		s.DB.Model(&models.User{}).Where("username = ? AND id <> ?", *req.Username, userID).Count(&count)
		if count > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "username already taken"})
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		var count int64
		s.DB.Model(&models.User{}).Where("email = ? AND id <> ?", email, userID).Count(&count)
		if count > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already registered"})
		}
		user.Email = email
	}
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 8 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password must be at least 8 characters"})
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to hash password"})
		}
		user.PasswordHash = string(hash)
	}

	if err := s.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update profile", "cause": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "profile updated", "user": user})
}

// UploadAvatar stores the hunter's avatar on R2 (or local uploads when R2
// is not configured) and saves the public URL.
func (s *AuthService) UploadAvatar(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing avatar file"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar must be png, jpg or webp"})
	}

	key := fmt.Sprintf("avatars/%s%s", userID, ext)
	url, err := utils.StoreFile(fileHeader, key)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store avatar", "cause": err.Error()})
	}

	if err := s.DB.Model(&models.User{}).Where("id = ?", userID).Update("avatar_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save avatar URL", "cause": err.Error()})
	}

	return c.JSON(fiber.Map{"avatar_url": url})
}
