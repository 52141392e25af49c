package controller

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	stripesub "github.com/stripe/stripe-go/v74/subscription"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"boxhub_backend/internal/model"
	"boxhub_backend/pkg/config"
	"boxhub_backend/pkg/database"
	"boxhub_backend/pkg/email"
	"boxhub_backend/pkg/membership"
	"boxhub_backend/pkg/utils/clock"
	"boxhub_backend/pkg/utils/jwt"
)

type MembershipInput struct {
	UserID    uint       `json:"user_id" validate:"required"`
	PlanID    uint       `json:"plan_id" validate:"required"`
	StartDate *time.Time `json:"start_date"`
}

type FreezeInput struct {
	FreezeStart time.Time `json:"freeze_start" validate:"required"`
	FreezeEnd   time.Time `json:"freeze_end" validate:"required"`
}

type CheckoutInput struct {
	PlanID uint `json:"plan_id" validate:"required"`
}

func InitMembershipController() {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
}

func ListPlans(c *fiber.Ctx) error {
	var plans []model.Subscription
	if err := database.DB.Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch membership plans",
		})
	}

	return c.JSON(plans)
}

// activateMembership replaces any membership the user currently holds and
// creates the new plan instance. Runs under a user row lock so two
// concurrent purchases for the same user serialize instead of leaving two
// live memberships. Replacement follows the cancellation semantics: the
// recorded suspension window is lifted along with the old membership.
func activateMembership(tx *gorm.DB, userID, planID uint, requestedStart *time.Time, stripeSubID string, now time.Time) (*model.UserSubscription, error) {
	var user model.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
		return nil, err
	}

	var plan model.Subscription
	if err := tx.First(&plan, planID).Error; err != nil {
		return nil, err
	}

	var existingPtr *model.UserSubscription
	var existing model.UserSubscription
	if err := tx.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		existingPtr = &existing
	}

	term, replaced := membership.Activate(&plan, existingPtr, &user, requestedStart, now)
	if replaced {
		if err := tx.Unscoped().Delete(&existing).Error; err != nil {
			return nil, err
		}
		if err := tx.Save(&user).Error; err != nil {
			return nil, err
		}
	}

	sub := model.UserSubscription{
		UserID:         user.ID,
		SubscriptionID: plan.ID,
		StartsAt:       term.StartsAt,
		EndsAt:         term.EndsAt,
		FreezeDaysLeft: term.FreezeDaysLeft,
		StripeSubID:    stripeSubID,
	}
	if err := tx.Create(&sub).Error; err != nil {
		return nil, err
	}

	sub.User = user
	sub.Subscription = plan
	return &sub, nil
}

// CreateMembership is the admin-direct path: the box staff activates a plan
// for a member without going through Stripe.
func CreateMembership(c *fiber.Ctx) error {
	input := new(MembershipInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var sub *model.UserSubscription
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		sub, err = activateMembership(tx, input.UserID, input.PlanID, input.StartDate, "", clock.Now())
		return err
	})

	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User or plan not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create membership",
		})
	}

	sendMembershipStartedEmail(sub)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Membership created successfully",
		"membership": sub,
	})
}

func sendMembershipStartedEmail(sub *model.UserSubscription) {
	if email.GlobalEmailService == nil {
		return
	}
	err := email.GlobalEmailService.SendMembershipStartedEmail(
		sub.User.Email,
		sub.User.GetFullName(),
		sub.Subscription.Name,
		sub.Subscription.DurationDays,
		sub.Subscription.Price,
		"EUR",
		sub.Subscription.SessionsPerWeek,
		sub.EndsAt,
	)
	if err != nil {
		log.Printf("Could not send membership email: %v", err)
	}
}

// FreezeMembership pauses the caller's running membership for a future
// window, consuming the plan's freeze-day budget and extending the end date
// by the same amount. The user is marked away for the window via a holiday
// suspension.
func FreezeMembership(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(FreezeInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	now := clock.Now()
	var sub model.UserSubscription

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND starts_at <= ? AND ends_at >= ?", claims.UserID, now, now).
			Preload("Subscription").
			First(&sub).Error; err != nil {
			return err
		}

		decision, err := membership.Freeze(&sub, input.FreezeStart, input.FreezeEnd, now)
		if err != nil {
			return err
		}

		sub.EndsAt = decision.NewEnd
		sub.FreezeDaysLeft = decision.FreezeDaysLeft
		if err := tx.Save(&sub).Error; err != nil {
			return err
		}

		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, claims.UserID).Error; err != nil {
			return err
		}
		user.SetSuspension(model.SuspensionHoliday, input.FreezeStart, input.FreezeEnd)
		return tx.Save(&user).Error
	})

	if txErr != nil {
		switch {
		case errors.Is(txErr, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No active membership found",
			})
		case errors.Is(txErr, membership.ErrInvalidWindow):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Freeze window must lie in the future and start before it ends",
			})
		case errors.Is(txErr, membership.ErrInsufficientFreezeDays):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Not enough freeze days left",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not freeze membership",
			})
		}
	}

	return c.JSON(fiber.Map{
		"message":    "Membership frozen successfully",
		"membership": sub,
	})
}

// removeMembership deletes a plan instance and unconditionally lifts the
// owner's suspension window, whatever kind it is. Cancelling a membership
// always clears the recorded suspension, including a running penalty.
func removeMembership(tx *gorm.DB, sub *model.UserSubscription) error {
	var user model.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, sub.UserID).Error; err != nil {
		return err
	}

	membership.Cancel(&user)
	if err := tx.Save(&user).Error; err != nil {
		return err
	}

	return tx.Unscoped().Delete(sub).Error
}

// DeleteMembership removes a membership by id (box staff path).
func DeleteMembership(c *fiber.Ctx) error {
	var sub model.UserSubscription
	if err := database.DB.Preload("User").Preload("Subscription").
		First(&sub, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Membership not found",
		})
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		return removeMembership(tx, &sub)
	})
	if txErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete membership",
		})
	}

	sendMembershipCancelledEmail(&sub)

	return c.JSON(fiber.Map{
		"message": "Membership deleted successfully",
	})
}

func sendMembershipCancelledEmail(sub *model.UserSubscription) {
	if email.GlobalEmailService == nil {
		return
	}
	err := email.GlobalEmailService.SendMembershipCancelledEmail(
		sub.User.Email,
		sub.User.GetFullName(),
		sub.Subscription.Name,
	)
	if err != nil {
		log.Printf("Could not send membership cancellation email: %v", err)
	}
}

// CancelMembership ends the caller's own membership, cancelling the Stripe
// subscription first when one is attached.
func CancelMembership(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var sub model.UserSubscription
	if err := database.DB.Where("user_id = ?", claims.UserID).
		Preload("User").
		Preload("Subscription").
		First(&sub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No membership found",
		})
	}

	if sub.StripeSubID != "" {
		if _, err := stripesub.Cancel(sub.StripeSubID, nil); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not cancel Stripe subscription",
			})
		}
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		return removeMembership(tx, &sub)
	})
	if txErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not cancel membership",
		})
	}

	sendMembershipCancelledEmail(&sub)

	return c.JSON(fiber.Map{
		"message": "Membership cancelled successfully",
	})
}

func GetMyMembership(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var sub model.UserSubscription
	if err := database.DB.Where("user_id = ?", claims.UserID).
		Preload("Subscription").First(&sub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No membership found",
		})
	}

	return c.JSON(sub)
}

// CreateCheckoutSession starts a Stripe Checkout flow for a plan.
func CreateCheckoutSession(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(CheckoutInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var plan model.Subscription
	if err := database.DB.First(&plan, input.PlanID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Membership plan not found",
		})
	}

	if plan.StripePriceID == "" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Plan is not available for online purchase",
		})
	}

	cfg := config.Load()

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(plan.StripePriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(cfg.Stripe.SuccessURL),
		CancelURL:         stripe.String(cfg.Stripe.CancelURL),
		ClientReferenceID: stripe.String(strconv.FormatUint(uint64(claims.UserID), 10)),
	}
	params.AddMetadata("plan_id", strconv.FormatUint(uint64(plan.ID), 10))

	s, err := session.New(params)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create checkout session",
		})
	}

	return c.JSON(fiber.Map{
		"checkout_url": s.URL,
	})
}

func HandleMembershipSuccess(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Payment successful, your membership will be activated shortly",
	})
}

func HandleMembershipCancel(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Payment cancelled",
	})
}

// HandleStripeWebhook completes checkout purchases and mirrors Stripe-side
// cancellations.
func HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	switch event.Type {
	case "checkout.session.completed":
		var sessionData struct {
			ClientReferenceID string `json:"client_reference_id"`
			Subscription      string `json:"subscription"`
			Metadata          struct {
				PlanID string `json:"plan_id"`
			} `json:"metadata"`
		}
		if err := json.Unmarshal(event.Data.Raw, &sessionData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		userID, err1 := strconv.ParseUint(sessionData.ClientReferenceID, 10, 32)
		planID, err2 := strconv.ParseUint(sessionData.Metadata.PlanID, 10, 32)
		if err1 != nil || err2 != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		var sub *model.UserSubscription
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var err error
			sub, err = activateMembership(tx, uint(userID), uint(planID), nil, sessionData.Subscription, clock.Now())
			return err
		})
		if txErr != nil {
			log.Printf("Could not activate membership from checkout: %v", txErr)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not activate membership",
			})
		}

		sendMembershipStartedEmail(sub)
		log.Printf("Membership activated for user %d via checkout", userID)

	case "customer.subscription.deleted":
		var subData struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		var sub model.UserSubscription
		if err := database.DB.Where("stripe_sub_id = ?", subData.ID).
			Preload("User").
			Preload("Subscription").
			First(&sub).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not find membership",
			})
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			return removeMembership(tx, &sub)
		})
		if txErr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not remove membership",
			})
		}

		sendMembershipCancelledEmail(&sub)
		log.Printf("Membership %s cancelled via webhook", subData.ID)
	}

	return c.SendStatus(fiber.StatusOK)
}
