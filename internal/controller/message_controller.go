package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"boxhub_backend/internal/model"
	"boxhub_backend/pkg/database"
	"boxhub_backend/pkg/utils/jwt"
)

type MessageInput struct {
	RecipientID uint   `json:"recipient_id" validate:"required"`
	Subject     string `json:"subject"`
	Body        string `json:"body" validate:"required"`
}

func CreateMessage(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(MessageInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var recipient model.User
	if err := database.GetDB().First(&recipient, input.RecipientID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Recipient not found",
		})
	}

	message := model.Message{
		SenderID:    claims.UserID,
		RecipientID: recipient.ID,
		Subject:     input.Subject,
		Body:        input.Body,
	}

	if err := database.GetDB().Create(&message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not send message",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

func GetInbox(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	query := database.GetDB().
		Where("recipient_id = ?", claims.UserID).
		Preload("Sender").
		Order("created_at desc")

	if readStatus := c.Query("read"); readStatus != "" {
		query = query.Where("read_status = ?", readStatus == "true")
	}

	var messages []model.Message
	if err := query.Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch messages",
		})
	}

	return c.JSON(messages)
}

func GetSent(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var messages []model.Message
	if err := database.GetDB().
		Where("sender_id = ?", claims.UserID).
		Order("created_at desc").
		Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch messages",
		})
	}

	return c.JSON(messages)
}

// findOwnMessage loads a message the caller participates in. Missing ids
// surface as gorm.ErrRecordNotFound, never a zero record for callers to
// trip over.
func findOwnMessage(id string, userID uint, message *model.Message) error {
	return database.GetDB().
		Where("id = ? AND (recipient_id = ? OR sender_id = ?)", id, userID, userID).
		First(message).Error
}

func messageNotFound(c *fiber.Ctx, err error) error {
	if err == gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Message not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Could not fetch message",
	})
}

func MarkMessageAsRead(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var message model.Message
	if err := findOwnMessage(c.Params("id"), claims.UserID, &message); err != nil {
		return messageNotFound(c, err)
	}

	if message.RecipientID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the recipient can mark a message as read",
		})
	}

	if err := database.GetDB().Model(&message).Update("read_status", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update message",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Message marked as read",
	})
}

func UpdateMessage(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(MessageInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var message model.Message
	if err := findOwnMessage(c.Params("id"), claims.UserID, &message); err != nil {
		return messageNotFound(c, err)
	}

	if message.SenderID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the sender can edit a message",
		})
	}

	updates := map[string]interface{}{
		"subject": input.Subject,
		"body":    input.Body,
	}

	if err := database.GetDB().Model(&message).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update message",
		})
	}

	return c.JSON(message)
}

func DeleteMessage(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var message model.Message
	if err := findOwnMessage(c.Params("id"), claims.UserID, &message); err != nil {
		return messageNotFound(c, err)
	}

	if err := database.GetDB().Delete(&message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete message",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Message deleted successfully",
	})
}
