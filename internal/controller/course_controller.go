package controller

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"boxhub_backend/internal/model"
	"boxhub_backend/pkg/database"
	"boxhub_backend/pkg/enrollment"
	"boxhub_backend/pkg/utils/clock"
	"boxhub_backend/pkg/utils/jwt"
)

type CourseInput struct {
	Title           string         `json:"title" validate:"required"`
	Description     string         `json:"description"`
	StartsAt        time.Time      `json:"starts_at" validate:"required"`
	DurationMinutes int            `json:"duration_minutes" validate:"required,min=1"`
	Weekdays        datatypes.JSON `json:"weekdays"`
	PersonLimit     int            `json:"person_limit" validate:"required,min=1"`
}

// courseSlug builds a unique slug from the title and start time, so the same
// class name can recur on different days.
func courseSlug(title string, startsAt time.Time) string {
	return slug.Make(fmt.Sprintf("%s %s", title, startsAt.Format("2006-01-02-1504")))
}

func CreateCourse(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(CourseInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	course := model.Course{
		Title:           input.Title,
		Slug:            courseSlug(input.Title, input.StartsAt),
		Description:     input.Description,
		StartsAt:        input.StartsAt,
		DurationMinutes: input.DurationMinutes,
		Weekdays:        input.Weekdays,
		PersonLimit:     input.PersonLimit,
		Status:          model.CourseStatusOpen,
		CoachID:         claims.UserID,
	}

	if err := database.GetDB().Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create course",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(course)
}

func UpdateCourse(c *fiber.Ctx) error {
	id := c.Params("id")
	input := new(CourseInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var course model.Course
	if err := database.GetDB().Preload("Enrollments").First(&course, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	if course.Status == model.CourseStatusCancelled {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Course is cancelled",
		})
	}

	course.Title = input.Title
	course.Description = input.Description
	course.StartsAt = input.StartsAt
	course.DurationMinutes = input.DurationMinutes
	course.Weekdays = input.Weekdays
	course.PersonLimit = input.PersonLimit
	// Capacity may have changed; recompute fill status from confirmed seats.
	course.Status = enrollment.DeriveStatus(course.PersonLimit, course.RegisteredCount())

	if err := database.GetDB().Save(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update course",
		})
	}

	return c.JSON(course)
}

// ListCourses returns courses, optionally narrowed to a date range via
// ?from=...&to=... (RFC 3339).
func ListCourses(c *fiber.Ctx) error {
	query := database.GetDB().Preload("Enrollments").Order("starts_at asc")

	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			query = query.Where("starts_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			query = query.Where("starts_at <= ?", t)
		}
	}

	var courses []model.Course
	if err := query.Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch courses",
		})
	}

	return c.JSON(courses)
}

func GetCourseBySlug(c *fiber.Ctx) error {
	var course model.Course
	if err := database.GetDB().Preload("Enrollments.User").
		Where("slug = ?", c.Params("slug")).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch course",
		})
	}

	return c.JSON(course)
}

// DeleteCourse removes a course and all its enrollments. A course that still
// has enrollees is first marked CANCELLED and persisted, leaving an audit
// trail before the rows disappear.
func DeleteCourse(c *fiber.Ctx) error {
	id := c.Params("id")

	var course model.Course
	if err := database.GetDB().Preload("Enrollments").First(&course, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	tx := database.GetDB().Begin()

	if len(course.Enrollments) > 0 {
		course.Status = model.CourseStatusCancelled
		course.UpdatedAt = clock.Now()
		if err := tx.Save(&course).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not cancel course",
			})
		}
	}

	if err := tx.Where("course_id = ?", course.ID).Delete(&model.Enrollment{}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not remove enrollments",
		})
	}

	if err := tx.Delete(&course).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete course",
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete the course deletion",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course deleted successfully",
	})
}
