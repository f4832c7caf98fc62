package seeders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/cafehub/app/models"
)

func init() {
	Register("cafes", SeedCafes)
}

var sampleCafes = []models.Cafe{
	{
		Name:         "Science Gallery London",
		MapURL:       "https://g.page/scigallerylon",
		ImgURL:       "https://atlondonbridge.com/wp-content/uploads/2019/10/Science-Gallery-London-Cafe.jpg",
		Location:     "London Bridge",
		HasSockets:   true,
		HasToilet:    true,
		HasWifi:      false,
		CanTakeCalls: true,
		Seats:        "50+",
		CoffeePrice:  "£2.40",
	},
	{
		Name:         "Social - Copeland Road",
		MapURL:       "https://g.page/CopelandSocial",
		ImgURL:       "https://images.squarespace-cdn.com/content/v1/copeland-social.jpg",
		Location:     "Peckham",
		HasSockets:   true,
		HasToilet:    true,
		HasWifi:      true,
		CanTakeCalls: false,
		Seats:        "20-30",
		CoffeePrice:  "£2.75",
	},
	{
		Name:         "The Peckham Pelican",
		MapURL:       "https://goo.gl/maps/pelican",
		ImgURL:       "https://lh3.googleusercontent.com/p/peckham-pelican.jpg",
		Location:     "Peckham",
		HasSockets:   false,
		HasToilet:    true,
		HasWifi:      true,
		CanTakeCalls: true,
		Seats:        "10-20",
		CoffeePrice:  "£2.50",
	},
}

// SeedCafes inserts the sample cafes, skipping names that already exist.
func SeedCafes(db *gorm.DB) error {
	rows := make([]models.Cafe, len(sampleCafes))
	copy(rows, sampleCafes)
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
