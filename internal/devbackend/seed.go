package devbackend

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/go-faker/faker/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/market-front/domain"
)

var categories = []string{"DIGITAL", "FASHION", "SPORTS", "BOOKS", "HOME"}

// Seed fills an empty listing table with n fake listings
func Seed(ctx context.Context, listings domain.ListingRepository, n int) error {
	count, err := listings.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logrus.Infof("skip seeding, %d listings exist", count)
		return nil
	}

	for i := 0; i < n; i++ {
		p := domain.Product{
			Title:             fmt.Sprintf("%s %s", faker.Word(), faker.Word()),
			Price:             decimal.New(int64(rand.Intn(100000)+100), -2),
			Status:            "ON_SALE",
			Category:          categories[rand.Intn(len(categories))],
			ThumbnailURL:      faker.URL(),
			SellerDisplayName: faker.FirstName(),
		}
		if err := listings.Store(ctx, &p); err != nil {
			return fmt.Errorf("seed listing %d: %w", i, err)
		}
	}
	logrus.Infof("seeded %d listings", n)
	return nil
}
