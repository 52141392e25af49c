package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"boxhub_backend/internal/model"
	"boxhub_backend/pkg/database"
	"boxhub_backend/pkg/utils/clock"
	"boxhub_backend/pkg/utils/jwt"
)

type PerformanceInput struct {
	ExerciseID uint       `json:"exercise_id" validate:"required"`
	Weight     float64    `json:"weight"`
	Reps       int        `json:"reps"`
	AchievedAt *time.Time `json:"achieved_at"`
}

type WeightInput struct {
	Weight     float64    `json:"weight" validate:"required"`
	MeasuredAt *time.Time `json:"measured_at"`
}

func CreatePerformanceEntry(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(PerformanceInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var exercise model.Exercise
	if err := database.GetDB().First(&exercise, input.ExerciseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Exercise not found",
		})
	}

	achievedAt := clock.Now()
	if input.AchievedAt != nil {
		achievedAt = *input.AchievedAt
	}

	entry := model.PerformanceEntry{
		UserID:     claims.UserID,
		ExerciseID: exercise.ID,
		Weight:     input.Weight,
		Reps:       input.Reps,
		AchievedAt: achievedAt,
	}

	if err := database.GetDB().Create(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save performance entry",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

func ListPerformanceEntries(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	query := database.GetDB().
		Where("user_id = ?", claims.UserID).
		Preload("Exercise").
		Order("achieved_at desc")

	if exerciseID := c.Query("exercise_id"); exerciseID != "" {
		query = query.Where("exercise_id = ?", exerciseID)
	}

	var entries []model.PerformanceEntry
	if err := query.Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch performance entries",
		})
	}

	return c.JSON(entries)
}

func DeletePerformanceEntry(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var entry model.PerformanceEntry
	if err := database.GetDB().
		Where("id = ? AND user_id = ?", c.Params("id"), claims.UserID).
		First(&entry).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Performance entry not found",
		})
	}

	if err := database.GetDB().Delete(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete performance entry",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Performance entry deleted successfully",
	})
}

func CreateWeightEntry(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(WeightInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	measuredAt := clock.Now()
	if input.MeasuredAt != nil {
		measuredAt = *input.MeasuredAt
	}

	entry := model.WeightEntry{
		UserID:     claims.UserID,
		Weight:     input.Weight,
		MeasuredAt: measuredAt,
	}

	if err := database.GetDB().Create(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save weight entry",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

func ListWeightEntries(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var entries []model.WeightEntry
	if err := database.GetDB().
		Where("user_id = ?", claims.UserID).
		Order("measured_at desc").
		Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch weight entries",
		})
	}

	return c.JSON(entries)
}
