package seed

import (
	"log"

	"gorm.io/gorm"

	"boxhub_backend/internal/model"
)

// SeedDefaultBox ensures the single-tenant box record exists and returns it.
func SeedDefaultBox(db *gorm.DB) model.Box {
	box := model.Box{
		Name:    "BoxHub Athletics",
		Address: "Industriestrasse 12",
		City:    "Zurich",
		Email:   "hello@boxhub.app",
	}

	result := db.FirstOrCreate(&box, model.Box{Name: box.Name})
	if result.Error != nil {
		log.Printf("Error creating default box: %v", result.Error)
	}
	return box
}

func SeedMembershipPlans(db *gorm.DB) {
	box := SeedDefaultBox(db)

	plans := []model.Subscription{
		{
			Name:              "Basic",
			Description:       "Two sessions a week for casual athletes",
			Price:             49.99,
			SessionsPerWeek:   2,
			DurationDays:      30,
			FreezeDaysAllowed: 5,
			StripeProductID:   "prod_test_basic",
			StripePriceID:     "price_test_basic",
		},
		{
			Name:              "Regular",
			Description:       "Three sessions a week plus open gym",
			Price:             69.99,
			SessionsPerWeek:   3,
			DurationDays:      30,
			FreezeDaysAllowed: 10,
			StripeProductID:   "prod_test_regular",
			StripePriceID:     "price_test_regular",
		},
		{
			Name:              "Unlimited",
			Description:       "Train every day, freeze when life happens",
			Price:             99.99,
			SessionsPerWeek:   7,
			DurationDays:      30,
			FreezeDaysAllowed: 14,
			StripeProductID:   "prod_test_unlimited",
			StripePriceID:     "price_test_unlimited",
		},
	}

	for _, plan := range plans {
		plan.BoxID = box.ID
		result := db.FirstOrCreate(&plan, model.Subscription{Name: plan.Name})
		if result.Error != nil {
			log.Printf("Error creating plan %s: %v", plan.Name, result.Error)
		}
	}

	log.Println("Membership plans seeded successfully!")
}
