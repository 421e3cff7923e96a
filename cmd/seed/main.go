package main

import (
	"context"
	"log"
	"os"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/adityar2309/Vehicle-Parking-App/internal/config"
	"github.com/adityar2309/Vehicle-Parking-App/internal/db"
	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
	"github.com/adityar2309/Vehicle-Parking-App/internal/repository"
)

type seedLot struct {
	name    string
	address string
	pinCode string
	spots   int
	price   string
}

var demoLots = []seedLot{
	{"Downtown Plaza", "12 Market Street", "400001", 20, "5.00"},
	{"Central Station", "1 Railway Approach", "400002", 40, "3.50"},
	{"Airport Long Stay", "Terminal Road", "400099", 60, "2.00"},
}

// Seeds an admin account and a few demo lots with numbered spots. Safe to
// run repeatedly: existing usernames and lot names are left alone.
func main() {
	cfg := config.Load()
	ctx := context.Background()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.ParkingLot{},
		&model.ParkingSpot{},
		&model.Reservation{},
		&model.ExportJob{},
		&model.UserActivity{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	repos := repository.NewRepositories(gormDB)

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}
	seedUser(ctx, repos, "admin", "admin@parking.local", adminPassword, model.RoleAdmin)
	seedUser(ctx, repos, "demo", "demo@parking.local", "demo123", model.RoleUser)

	for _, l := range demoLots {
		seedLotWithSpots(ctx, repos, l)
	}

	log.Println("seed complete")
}

func seedUser(ctx context.Context, repos *repository.Repositories, username, email, password, role string) {
	if _, err := repos.Users.FindByUsername(ctx, username); err == nil {
		log.Printf("user %q already exists, skipping", username)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password for %q: %v", username, err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := repos.Users.Create(ctx, user); err != nil {
		log.Fatalf("create user %q: %v", username, err)
	}
	log.Printf("created %s user %q (id=%d)", role, username, user.ID)
}

func seedLotWithSpots(ctx context.Context, repos *repository.Repositories, l seedLot) {
	existing, err := repos.Lots.List(ctx)
	if err != nil {
		log.Fatalf("list lots: %v", err)
	}
	for i := range existing {
		if existing[i].PrimeLocationName == l.name {
			log.Printf("lot %q already exists, skipping", l.name)
			return
		}
	}

	price, err := decimal.NewFromString(l.price)
	if err != nil {
		log.Fatalf("parse price for %q: %v", l.name, err)
	}

	lot := &model.ParkingLot{
		PrimeLocationName: l.name,
		Address:           l.address,
		PinCode:           l.pinCode,
		NumberOfSpots:     l.spots,
		Price:             price,
	}
	if err := repos.Lots.Create(ctx, lot); err != nil {
		log.Fatalf("create lot %q: %v", l.name, err)
	}

	spots := make([]model.ParkingSpot, 0, l.spots)
	for n := 1; n <= l.spots; n++ {
		spots = append(spots, model.ParkingSpot{
			LotID:      lot.ID,
			SpotNumber: model.FormatSpotNumber(n),
			Status:     model.SpotAvailable,
		})
	}
	if err := repos.Spots.CreateBatch(ctx, spots); err != nil {
		log.Fatalf("create spots for %q: %v", l.name, err)
	}

	log.Printf("created lot %q with %d spots at $%s/hr", l.name, l.spots, price.StringFixed(2))
}
