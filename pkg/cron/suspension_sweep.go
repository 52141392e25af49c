package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"boxhub_backend/internal/model"
	"boxhub_backend/pkg/database"
	"boxhub_backend/pkg/strikes"
	"boxhub_backend/pkg/utils/clock"
)

func InitSuspensionSweepCron() {
	c := cron.New()

	_, err := c.AddFunc("30 0 * * *", func() {
		if _, err := RunSuspensionSweep(); err != nil {
			log.Printf("Suspension sweep failed: %v", err)
		}
	})

	if err != nil {
		log.Printf("Could not initialize suspension sweep cron: %v", err)
		return
	}

	c.Start()
}

// RunSuspensionSweep expires ended suspension windows across all users and
// reports how many records actually changed. Every user is saved on each
// sweep; the unchanged saves are idempotent no-ops.
func RunSuspensionSweep() (int, error) {
	log.Println("Running suspension sweep...")

	today := clock.Today()

	var users []model.User
	if err := database.DB.Find(&users).Error; err != nil {
		return 0, err
	}

	changed := 0
	for i := range users {
		if strikes.SweepUser(&users[i], today) {
			changed++
		}
		if err := database.DB.Save(&users[i]).Error; err != nil {
			log.Printf("Could not save user %d during sweep: %v", users[i].ID, err)
		}
	}

	log.Printf("Suspension sweep done: %d of %d users changed", changed, len(users))
	return changed, nil
}
