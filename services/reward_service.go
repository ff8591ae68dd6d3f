// services/reward_service.go
package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"hunter-progression-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RewardService struct {
	DB *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db}
}

// --- Admin Handlers ---

// CreateReward creates a new level-gated reward (Admin only)
func (s *RewardService) CreateReward(c *fiber.Ctx) error {
	var req struct {
		Title       string                `json:"title" validate:"required"`
		Type        models.RewardType     `json:"type" validate:"required,oneof=item cosmetic"`
		Category    models.RewardCategory `json:"category" validate:"required,oneof=levelup streak achievement milestone other"`
		ImageURL    string                `json:"image_url"`
		Emoji       string                `json:"emoji"`
		Excerpt     string                `json:"excerpt"`
		ItemDetails string                `json:"item_details"`
		ExpiryDate  *time.Time            `json:"expiry_date"`
		MinLevel    int                   `json:"min_level"`
		Status      models.RewardStatus   `json:"status" validate:"required,oneof=draft published archived"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}
	if req.MinLevel < 1 {
		req.MinLevel = 1
	}

	reward := &models.Reward{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Type:        req.Type,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Emoji:       req.Emoji,
		Excerpt:     req.Excerpt,
		ItemDetails: req.ItemDetails,
		ExpiryDate:  req.ExpiryDate,
		MinLevel:    req.MinLevel,
		Status:      req.Status,
	}
	if err := s.DB.Create(reward).Error; err != nil {
		log.Printf("DB Error creating reward: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create reward"})
	}
	return c.Status(fiber.StatusCreated).JSON(reward)
}

// UpdateReward updates an existing reward (Admin only)
func (s *RewardService) UpdateReward(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid reward ID"})
	}

	var reward models.Reward
	if err := s.DB.First(&reward, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "reward not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		Title       *string              `json:"title"`
		Type        *models.RewardType   `json:"type"`
		ImageURL    *string              `json:"image_url"`
		Emoji       *string              `json:"emoji"`
		Excerpt     *string              `json:"excerpt"`
		ItemDetails *string              `json:"item_details"`
		ExpiryDate  *time.Time           `json:"expiry_date"`
		MinLevel    *int                 `json:"min_level"`
		Status      *models.RewardStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Title != nil {
		reward.Title = *req.Title
	}
	if req.Type != nil {
		reward.Type = *req.Type
	}
	if req.ImageURL != nil {
		reward.ImageURL = *req.ImageURL
	}
	if req.Emoji != nil {
		reward.Emoji = *req.Emoji
	}
	if req.Excerpt != nil {
		reward.Excerpt = *req.Excerpt
	}
	if req.ItemDetails != nil {
		reward.ItemDetails = *req.ItemDetails
	}
	if req.ExpiryDate != nil {
		reward.ExpiryDate = req.ExpiryDate
	}
	if req.MinLevel != nil && *req.MinLevel >= 1 {
		reward.MinLevel = *req.MinLevel
	}
	if req.Status != nil {
		reward.Status = *req.Status
	}

	if err := s.DB.Save(&reward).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update reward"})
	}
	return c.JSON(reward)
}

// DeleteReward archives/removes a reward (Admin only)
func (s *RewardService) DeleteReward(c *fiber.Ctx) error {
	id := c.Params("id")
	res := s.DB.Where("id = ?", id).Delete(&models.Reward{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete reward"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "reward not found"})
	}
	return c.JSON(fiber.Map{"message": "reward deleted"})
}

// --- User Handlers ---

// GetAvailableRewards lists published, unclaimed rewards the hunter's level
// qualifies for.
func (s *RewardService) GetAvailableRewards(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var prog models.UserProgress
	if err := s.DB.Where("user_id = ?", userID).First(&prog).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load progress", "cause": err.Error()})
	}

	var rewards []models.Reward
	err := s.DB.
		Where("status = ? AND claimed = ? AND min_level <= ?", models.RewardStatusPublished, false, prog.Level).
		Where("expiry_date IS NULL OR expiry_date > ?", time.Now()).
		Order("min_level ASC").
		Find(&rewards).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list rewards", "cause": err.Error()})
	}
	return c.JSON(rewards)
}

// GetMyRewards lists rewards the hunter has claimed.
func (s *RewardService) GetMyRewards(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var rewards []models.Reward
	err := s.DB.Where("user_id = ? AND claimed = ?", userID, true).
		Order("updated_at DESC").
		Find(&rewards).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list rewards", "cause": err.Error()})
	}
	return c.JSON(rewards)
}

// ClaimReward claims a published reward if the hunter meets its level gate.
// The claim check and the claim itself run under a row lock so a reward can
// only be claimed once.
func (s *RewardService) ClaimReward(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	var prog models.UserProgress
	if err := s.DB.Where("user_id = ?", userID).First(&prog).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load progress", "cause": err.Error()})
	}

	var reward models.Reward
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&reward, "id = ?", id).Error; err != nil {
			return err
		}

		if reward.Status != models.RewardStatusPublished {
			return errRewardUnavailable
		}
		if reward.Claimed {
			return errRewardClaimed
		}
		if reward.ExpiryDate != nil && reward.ExpiryDate.Before(time.Now()) {
			return errRewardUnavailable
		}
		if prog.Level < reward.MinLevel {
			return errRewardLevelGate
		}

		reward.Claimed = true
		reward.UserID = userID
		return tx.Save(&reward).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "reward not found"})
		case errors.Is(err, errRewardClaimed):
			// Idempotent claim replay is a signaled no-op
			return c.JSON(fiber.Map{"success": false, "message": "reward already claimed"})
		case errors.Is(err, errRewardLevelGate):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "level too low for this reward"})
		case errors.Is(err, errRewardUnavailable):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "reward is not available"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to claim reward", "cause": err.Error()})
		}
	}

	log.Printf("🎁 Reward claimed: %s → %s", reward.Title, userID)
	return c.JSON(fiber.Map{"success": true, "reward": reward})
}

var (
	errRewardClaimed     = errors.New("reward already claimed")
	errRewardLevelGate   = errors.New("level requirement not met")
	errRewardUnavailable = errors.New("reward not available")
)

// StreamRewardsSSE streams newly published rewards for the hunter's level
// in real time.
func (s *RewardService) StreamRewardsSSE(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var prog models.UserProgress
	if err := s.DB.Where("user_id = ?", userID).First(&prog).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load progress"})
	}
	level := prog.Level

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		lastMaxCreatedAt := time.Now()

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				var newRewards []models.Reward
				err := s.DB.
					Where("status = ? AND claimed = ? AND min_level <= ?", models.RewardStatusPublished, false, level).
					Where("created_at > ?", lastMaxCreatedAt).
					Order("created_at ASC").
					Find(&newRewards).Error
				if err != nil {
					log.Printf("SSE query error for user %s: %v", userID, err)
					continue
				}
				if len(newRewards) == 0 {
					continue
				}

				lastMaxCreatedAt = newRewards[len(newRewards)-1].CreatedAt

				for _, r := range newRewards {
					payload, _ := json.Marshal(r)
					fmt.Fprintf(w, "event: reward\ndata: %s\n\n", payload)
				}

				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-c.Context().Done():
				return
			}
		}
	})

	return nil
}
