package models

import "time"

// Cafe is a directory listing. Listings are created and removed, never edited.
type Cafe struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	MapURL       string    `gorm:"column:map_url;size:2048;not null" json:"map_url"`
	ImgURL       string    `gorm:"column:img_url;size:2048;not null" json:"img_url"`
	Location     string    `gorm:"size:255;not null" json:"location"`
	HasSockets   bool      `gorm:"not null;default:false" json:"has_sockets"`
	HasToilet    bool      `gorm:"not null;default:false" json:"has_toilet"`
	HasWifi      bool      `gorm:"not null;default:false" json:"has_wifi"`
	CanTakeCalls bool      `gorm:"not null;default:false" json:"can_take_calls"`
	Seats        string    `gorm:"size:100;not null" json:"seats"`
	CoffeePrice  string    `gorm:"size:100;not null" json:"coffee_price"`
	CreatedAt    time.Time `json:"created_at"`
}
