package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"boxhub_backend/internal/model"
	"boxhub_backend/pkg/database"
)

type ExerciseInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
}

func CreateExercise(c *fiber.Ctx) error {
	input := new(ExerciseInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	exercise := model.Exercise{
		Name:        input.Name,
		Description: input.Description,
		VideoURL:    input.VideoURL,
	}

	if err := database.GetDB().Create(&exercise).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create exercise",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(exercise)
}

func ListExercises(c *fiber.Ctx) error {
	var exercises []model.Exercise
	if err := database.GetDB().Order("name asc").Find(&exercises).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch exercises",
		})
	}

	return c.JSON(exercises)
}

func UpdateExercise(c *fiber.Ctx) error {
	input := new(ExerciseInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var exercise model.Exercise
	if err := database.GetDB().First(&exercise, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Exercise not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch exercise",
		})
	}

	exercise.Name = input.Name
	exercise.Description = input.Description
	exercise.VideoURL = input.VideoURL

	if err := database.GetDB().Save(&exercise).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update exercise",
		})
	}

	return c.JSON(exercise)
}

func DeleteExercise(c *fiber.Ctx) error {
	var exercise model.Exercise
	if err := database.GetDB().First(&exercise, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Exercise not found",
		})
	}

	if err := database.GetDB().Delete(&exercise).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete exercise",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Exercise deleted successfully",
	})
}
