package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"boxhub_backend/internal/model"
	"boxhub_backend/pkg/config"
	cronjobs "boxhub_backend/pkg/cron"
	"boxhub_backend/pkg/database"
	"boxhub_backend/pkg/email"
	"boxhub_backend/pkg/strikes"
	"boxhub_backend/pkg/utils/clock"
)

func strikePolicy() strikes.Policy {
	cfg := config.Load()
	return strikes.Policy{
		MaxStrikes:  cfg.Strikes.MaxStrikes,
		PenaltyDays: cfg.Strikes.PenaltyDays,
	}
}

// ApplyStrike adds a discipline strike to a member. Hitting the maximum
// triggers an automatic penalty suspension and an email.
func ApplyStrike(c *fiber.Ctx) error {
	var user model.User
	suspended := false

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, c.Params("id")).Error; err != nil {
			return err
		}

		suspended = strikePolicy().Apply(&user, clock.Today())
		return tx.Save(&user).Error
	})

	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not apply strike",
		})
	}

	if suspended && email.GlobalEmailService != nil && user.SuspensionEnd != nil {
		err := email.GlobalEmailService.SendPenaltySuspensionEmail(
			user.Email,
			user.GetFullName(),
			*user.SuspensionEnd,
		)
		if err != nil {
			log.Printf("Could not send penalty suspension email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message":      "Strike applied",
		"strike_count": user.StrikeCount,
		"suspended":    suspended,
	})
}

// RemoveStrike lifts a strike, which under the current policy clears the
// whole discipline record: suspension gone, count back to zero.
func RemoveStrike(c *fiber.Ctx) error {
	var user model.User

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, c.Params("id")).Error; err != nil {
			return err
		}

		strikes.Remove(&user)
		return tx.Save(&user).Error
	})

	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not remove strike",
		})
	}

	return c.JSON(fiber.Map{
		"message":      "Strike removed",
		"strike_count": user.StrikeCount,
	})
}

// RunSuspensionSweep triggers the daily expiry sweep on demand (ops escape
// hatch; the cron runs it nightly).
func RunSuspensionSweep(c *fiber.Ctx) error {
	changed, err := cronjobs.RunSuspensionSweep()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not run suspension sweep",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Suspension sweep completed",
		"changed": changed,
	})
}
