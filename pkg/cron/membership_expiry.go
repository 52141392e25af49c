package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"boxhub_backend/internal/model"
	"boxhub_backend/pkg/database"
	"boxhub_backend/pkg/email"
	"boxhub_backend/pkg/utils/clock"
)

func InitMembershipExpiryCron() {
	c := cron.New()

	_, err := c.AddFunc("0 9 * * *", func() {
		checkExpiringMemberships()
	})

	if err != nil {
		log.Printf("Could not initialize membership expiry cron: %v", err)
		return
	}

	c.Start()
}

// expiryWindowDate formats the calendar date that memberships expiring in
// days from now land on.
func expiryWindowDate(now time.Time, days int) string {
	return now.AddDate(0, 0, days).Format("2006-01-02")
}

func checkExpiringMemberships() {
	log.Println("Checking for expiring memberships...")

	warningDays := []int{7, 3}

	for _, days := range warningDays {
		var subs []model.UserSubscription
		targetDate := expiryWindowDate(clock.Now(), days)

		err := database.DB.Where("DATE(ends_at) = ?", targetDate).
			Preload("User").
			Preload("Subscription").
			Find(&subs).Error

		if err != nil {
			log.Printf("Error fetching expiring memberships: %v", err)
			continue
		}

		log.Printf("Found %d memberships expiring in %d days", len(subs), days)

		for _, sub := range subs {
			if email.GlobalEmailService == nil {
				continue
			}

			err := email.GlobalEmailService.SendMembershipExpiryWarning(
				sub.User.Email,
				sub.User.GetFullName(),
				sub.Subscription.Name,
				sub.EndsAt,
				days,
			)
			if err != nil {
				log.Printf("Error sending expiry warning to %s: %v", sub.User.Email, err)
			}
		}
	}
}
