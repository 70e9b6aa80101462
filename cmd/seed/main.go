package main

import (
	"tourism/internal/config"
	"tourism/internal/database"
	"tourism/internal/domain"
	"tourism/internal/modules/auth"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type seedAccount struct {
	username string
	email    string
	password string
	fullName string
	role     domain.UserRole
}

var accounts = []seedAccount{
	{"admin", "admin@tourism.com", "admin123", "System Administrator", domain.RoleAdmin},
	{"coworker", "coworker@tourism.so", "coworker123", "Front Desk", domain.RoleCoWorker},
}

var places = []domain.Place{
	{
		NameEng: "Lido Beach", NameSom: "Xeebta Liido", Category: domain.CategoryBeach, Location: "Mogadishu",
		DescEng: "The most popular beach in Mogadishu.", DescSom: "Xeebta ugu caansan Muqdisho.",
		PricePerPerson: decimal.NewFromInt(5), MaxCapacity: 50, ImagePath: "uploads/lido.jpg",
	},
	{
		NameEng: "Arba'a Rukun Mosque", NameSom: "Masjidka Arbaca Rukun", Category: domain.CategoryReligious, Location: "Mogadishu",
		DescEng: "One of the oldest mosques in the city.", DescSom: "Mid ka mid ah masaajidda ugu da'da weyn.",
		PricePerPerson: decimal.Zero, MaxCapacity: 30, ImagePath: "uploads/arbaa-rukun.jpg",
	},
	{
		NameEng: "Laas Geel", NameSom: "Laas Geel", Category: domain.CategoryHistorical, Location: "Hargeisa",
		DescEng: "Neolithic rock art shelters.", DescSom: "Sawirrada dhagaxa ee qadiimiga ah.",
		PricePerPerson: decimal.RequireFromString("15.50"), MaxCapacity: 20, ImagePath: "uploads/laas-geel.jpg",
	},
	{
		NameEng: "Peace Garden", NameSom: "Beerta Nabadda", Category: domain.CategoryUrbanPark, Location: "Mogadishu",
		DescEng: "Green space in the city center.", DescSom: "Meel cagaaran oo bartamaha magaalada ah.",
		PricePerPerson: decimal.NewFromInt(1), MaxCapacity: 100, ImagePath: "uploads/peace-garden.jpg",
	},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := cfg.NewLogger()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("database migration failed")
	}

	for _, a := range accounts {
		if err := seedUser(db, a); err != nil {
			log.WithError(err).WithField("username", a.username).Fatal("seed account failed")
		}
		log.WithFields(logrus.Fields{"username": a.username, "role": a.role}).Info("account ready")
	}

	for _, p := range places {
		res := db.Where(domain.Place{NameEng: p.NameEng}).FirstOrCreate(&p)
		if res.Error != nil {
			log.WithError(res.Error).WithField("place", p.NameEng).Fatal("seed place failed")
		}
		log.WithFields(logrus.Fields{"place": p.NameEng, "created": res.RowsAffected > 0}).Info("place ready")
	}
}

// seedUser creates the account once and only fixes its role on later runs.
func seedUser(db *gorm.DB, a seedAccount) error {
	hash, err := auth.HashPassword(a.password)
	if err != nil {
		return err
	}

	var u domain.User
	res := db.Where(domain.User{Username: a.username}).
		Attrs(domain.User{Email: a.email, FullName: a.fullName, PasswordHash: hash, Role: a.role, IsActive: true}).
		FirstOrCreate(&u)
	if res.Error != nil {
		return res.Error
	}
	if u.Role != a.role {
		return db.Model(&u).Update("role", a.role).Error
	}
	return nil
}
