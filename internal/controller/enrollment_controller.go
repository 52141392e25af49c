package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"boxhub_backend/internal/model"
	"boxhub_backend/pkg/database"
	"boxhub_backend/pkg/email"
	"boxhub_backend/pkg/enrollment"
	"boxhub_backend/pkg/utils/clock"
	"boxhub_backend/pkg/utils/jwt"
)

// loadCourseForUpdate locks the course row and loads its enrollments in
// promotion order. The lock serializes concurrent capacity checks on the
// same course: two registrations racing for the last seat queue up here
// instead of both observing a free seat.
func loadCourseForUpdate(tx *gorm.DB, courseID interface{}, course *model.Course) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(course, courseID).Error; err != nil {
		return err
	}
	return tx.Where("course_id = ?", course.ID).
		Order("created_at asc, id asc").
		Find(&course.Enrollments).Error
}

// RegisterToCourse books a seat, or a waiting-list spot when the course is
// full. The capacity check and the insert happen in one transaction under a
// course row lock.
func RegisterToCourse(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	now := clock.Now()

	var course model.Course
	var entry model.Enrollment

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := loadCourseForUpdate(tx, c.Params("id"), &course); err != nil {
			return err
		}

		var user model.User
		if err := tx.First(&user, claims.UserID).Error; err != nil {
			return err
		}

		decision, err := enrollment.Register(&course, &user, now)
		if err != nil {
			return err
		}

		entry = model.Enrollment{
			UserID:   user.ID,
			CourseID: course.ID,
			Status:   decision.Status,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		course.Enrollments = append(course.Enrollments, entry)
		course.Status = decision.CourseStatus
		return tx.Model(&model.Course{}).Where("id = ?", course.ID).
			Update("status", decision.CourseStatus).Error
	})

	if txErr != nil {
		return enrollmentError(c, txErr)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": registrationMessage(entry.Status),
		"status":  entry.Status,
		"course":  course,
	})
}

func registrationMessage(status model.EnrollmentStatus) string {
	if status == model.EnrollmentWaitingList {
		return "Course is full, you have been added to the waiting list"
	}
	return "Registration successful"
}

// WithdrawFromCourse frees a confirmed seat and promotes the oldest
// waiting-list entry, if any. The promoted member gets a seat-freed email
// after the transaction commits.
func WithdrawFromCourse(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var course model.Course
	var promotedUserID uint

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := loadCourseForUpdate(tx, c.Params("id"), &course); err != nil {
			return err
		}

		decision, err := enrollment.Withdraw(&course, claims.UserID)
		if err != nil {
			return err
		}

		// Hard delete so the (user, course) unique index frees up for a
		// later re-registration.
		if err := tx.Unscoped().Delete(&model.Enrollment{}, decision.Removed.ID).Error; err != nil {
			return err
		}

		if decision.Promoted != nil {
			promotedUserID = decision.Promoted.UserID
			if err := tx.Model(&model.Enrollment{}).Where("id = ?", decision.Promoted.ID).
				Update("status", model.EnrollmentRegistered).Error; err != nil {
				return err
			}
		}

		course.Status = decision.CourseStatus
		if err := tx.Model(&model.Course{}).Where("id = ?", course.ID).
			Update("status", decision.CourseStatus).Error; err != nil {
			return err
		}

		return tx.Where("course_id = ?", course.ID).
			Order("created_at asc, id asc").
			Find(&course.Enrollments).Error
	})

	if txErr != nil {
		return enrollmentError(c, txErr)
	}

	if promotedUserID != 0 && email.GlobalEmailService != nil {
		var promoted model.User
		if err := database.DB.First(&promoted, promotedUserID).Error; err == nil {
			err := email.GlobalEmailService.SendSeatFreedEmail(
				promoted.Email,
				promoted.GetFullName(),
				course.Title,
				course.StartsAt,
			)
			if err != nil {
				log.Printf("Could not send seat freed email: %v", err)
			}
		}
	}

	return c.JSON(fiber.Map{
		"message": "Withdrawal successful",
		"course":  course,
	})
}

// enrollmentError maps engine failures onto client-visible responses.
func enrollmentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	case errors.Is(err, enrollment.ErrAlreadyRegistered),
		errors.Is(err, gorm.ErrDuplicatedKey):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You already have an enrollment for this course",
		})
	case errors.Is(err, enrollment.ErrUserSuspended):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You cannot register while suspended",
		})
	case errors.Is(err, enrollment.ErrCourseCancelled):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Course is cancelled",
		})
	case errors.Is(err, enrollment.ErrNotEnrolled):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You are not registered for this course",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not process enrollment",
		})
	}
}
