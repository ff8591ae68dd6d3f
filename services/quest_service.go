package services

import (
	"errors"
	"log"
	"strconv"
	"time"

	"hunter-progression-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type QuestService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewQuestService(db *gorm.DB, progression *ProgressionService) *QuestService {
	return &QuestService{DB: db, Progression: progression}
}

var validDifficulties = map[string]bool{"E": true, "D": true, "C": true, "B": true, "A": true, "S": true}
var validQuestTypes = map[string]bool{"daily": true, "weekly": true, "achievement": true}

// CreateQuest registers a new quest for the authenticated hunter.
func (s *QuestService) CreateQuest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		Title       string     `json:"title" validate:"required,max=200"`
		Description string     `json:"description"`
		Difficulty  string     `json:"difficulty" validate:"required,oneof=E D C B A S"`
		XPReward    int64      `json:"xp_reward"`
		QuestType   string     `json:"quest_type" validate:"required,oneof=daily weekly achievement"`
		Deadline    *time.Time `json:"deadline"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}
	if !validDifficulties[req.Difficulty] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "difficulty must be one of E, D, C, B, A, S"})
	}
	if !validQuestTypes[req.QuestType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quest_type must be daily, weekly or achievement"})
	}
	if req.XPReward < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "xp_reward must be non-negative"})
	}
	if req.XPReward == 0 {
		req.XPReward = s.Progression.Weights.QuestXP
	}

	quest := models.Quest{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Slug:        slug.Make(req.Title),
		Description: req.Description,
		Difficulty:  req.Difficulty,
		XPReward:    req.XPReward,
		QuestType:   req.QuestType,
		Deadline:    req.Deadline,
	}
	if err := s.DB.Create(&quest).Error; err != nil {
		log.Printf("DB Error creating quest: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create quest"})
	}

	return c.Status(fiber.StatusCreated).JSON(quest)
}

// GetQuests lists the hunter's quests; ?active=true filters to open ones.
func (s *QuestService) GetQuests(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	db := s.DB.Where("user_id = ?", userID)
	if active, _ := strconv.ParseBool(c.Query("active", "false")); active {
		db = db.Where("completed = ? AND expired = ?", false, false)
	}
	if questType := c.Query("type"); questType != "" {
		db = db.Where("quest_type = ?", questType)
	}

	var quests []models.Quest
	if err := db.Order("created_at DESC").Find(&quests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list quests", "cause": err.Error()})
	}
	return c.JSON(quests)
}

// GetQuestByID returns one quest owned by the hunter.
func (s *QuestService) GetQuestByID(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	var quest models.Quest
	if err := s.DB.Where("id = ? AND user_id = ?", id, userID).First(&quest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "quest not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}
	return c.JSON(quest)
}

// UpdateQuest edits an open quest. Completed quests are immutable.
func (s *QuestService) UpdateQuest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	var quest models.Quest
	if err := s.DB.Where("id = ? AND user_id = ?", id, userID).First(&quest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "quest not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}
	if quest.Completed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "completed quests cannot be edited"})
	}

	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Difficulty  *string    `json:"difficulty"`
		XPReward    *int64     `json:"xp_reward"`
		Deadline    *time.Time `json:"deadline"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}

	if req.Title != nil && *req.Title != "" {
		quest.Title = *req.Title
		quest.Slug = slug.Make(*req.Title)
	}
	if req.Description != nil {
		quest.Description = *req.Description
	}
	if req.Difficulty != nil {
		if !validDifficulties[*req.Difficulty] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "difficulty must be one of E, D, C, B, A, S"})
		}
		quest.Difficulty = *req.Difficulty
	}
	if req.XPReward != nil {
		if *req.XPReward < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "xp_reward must be non-negative"})
		}
		quest.XPReward = *req.XPReward
	}
	if req.Deadline != nil {
		quest.Deadline = req.Deadline
	}

	if err := s.DB.Save(&quest).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update quest", "cause": err.Error()})
	}
	return c.JSON(quest)
}

// DeleteQuest removes a quest (soft delete).
func (s *QuestService) DeleteQuest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	res := s.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Quest{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete quest", "cause": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "quest not found"})
	}
	return c.JSON(fiber.Map{"message": "quest deleted"})
}

// CompleteQuest completes a quest and awards its XP. Re-completing is a
// signaled no-op, never an error.
func (s *QuestService) CompleteQuest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	result, err := s.Progression.CompleteQuest(userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "quest not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to complete quest", "cause": err.Error()})
	}

	if result.AlreadyCompleted {
		return c.JSON(fiber.Map{
			"success":       false,
			"message":       "quest already completed",
			"xp_gained":     0,
			"notifications": []interface{}{},
		})
	}

	snapshot, err := s.Progression.GetProgressSnapshot(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load progress", "cause": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "quest completed successfully",
		"xp_gained":     result.XPGained,
		"notifications": result.Notifications,
		"progress":      snapshot,
	})
}
