package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"boxhub_backend/internal/model"
	"boxhub_backend/pkg/database"
	"boxhub_backend/pkg/email"
	"boxhub_backend/pkg/enrollment"
)

func ListUsers(c *fiber.Ctx) error {
	query := database.GetDB().Order("created_at desc")

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch users",
		})
	}

	profiles := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].GetPublicProfile())
	}

	return c.JSON(profiles)
}

type seatFreedNotice struct {
	UserID      uint
	CourseTitle string
	StartsAt    time.Time
}

// DeleteUser removes a member together with their enrollments and
// membership. Each course the member held a confirmed seat in goes through
// the regular withdrawal path, so waiting-list promotions fire and the
// course status stays consistent with its seat count.
func DeleteUser(c *fiber.Ctx) error {
	var user model.User
	if err := database.GetDB().First(&user, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var notices []seatFreedNotice

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		var courseIDs []uint
		if err := tx.Model(&model.Enrollment{}).
			Where("user_id = ?", user.ID).
			Distinct("course_id").
			Pluck("course_id", &courseIDs).Error; err != nil {
			return err
		}

		for _, courseID := range courseIDs {
			var course model.Course
			if err := loadCourseForUpdate(tx, courseID, &course); err != nil {
				return err
			}

			decision, err := enrollment.RemoveUser(&course, user.ID)
			if err != nil {
				return err
			}

			if err := tx.Unscoped().Delete(&model.Enrollment{}, decision.Removed.ID).Error; err != nil {
				return err
			}

			if decision.Promoted != nil {
				if err := tx.Model(&model.Enrollment{}).Where("id = ?", decision.Promoted.ID).
					Update("status", model.EnrollmentRegistered).Error; err != nil {
					return err
				}
				notices = append(notices, seatFreedNotice{
					UserID:      decision.Promoted.UserID,
					CourseTitle: course.Title,
					StartsAt:    course.StartsAt,
				})
			}

			if err := tx.Model(&model.Course{}).Where("id = ?", course.ID).
				Update("status", decision.CourseStatus).Error; err != nil {
				return err
			}
		}

		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&model.UserSubscription{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})

	if txErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete user",
		})
	}

	for _, notice := range notices {
		if email.GlobalEmailService == nil {
			break
		}
		var promoted model.User
		if err := database.DB.First(&promoted, notice.UserID).Error; err != nil {
			continue
		}
		err := email.GlobalEmailService.SendSeatFreedEmail(
			promoted.Email,
			promoted.GetFullName(),
			notice.CourseTitle,
			notice.StartsAt,
		)
		if err != nil {
			log.Printf("Could not send seat freed email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}
