// Package forms holds request payloads as submitted and converts them to
// the typed input the services accept.
package forms

import (
	"strings"

	"github.com/shashiranjanraj/cafehub/app/services"
)

// CafeForm is the add-cafe submission, from JSON or an HTML form.
type CafeForm struct {
	Name         string `json:"name"`
	MapURL       string `json:"map_url"`
	ImgURL       string `json:"img_url"`
	Location     string `json:"location"`
	HasSockets   Flag   `json:"has_sockets"`
	HasToilet    Flag   `json:"has_toilet"`
	HasWifi      Flag   `json:"has_wifi"`
	CanTakeCalls Flag   `json:"can_take_calls"`
	Seats        string `json:"seats"`
	CoffeePrice  string `json:"coffee_price"`
}

// Input trims text fields and resolves amenity flags to booleans.
func (f CafeForm) Input() services.CafeInput {
	return services.CafeInput{
		Name:         strings.TrimSpace(f.Name),
		MapURL:       strings.TrimSpace(f.MapURL),
		ImgURL:       strings.TrimSpace(f.ImgURL),
		Location:     strings.TrimSpace(f.Location),
		HasSockets:   f.HasSockets.Bool(),
		HasToilet:    f.HasToilet.Bool(),
		HasWifi:      f.HasWifi.Bool(),
		CanTakeCalls: f.CanTakeCalls.Bool(),
		Seats:        strings.TrimSpace(f.Seats),
		CoffeePrice:  strings.TrimSpace(f.CoffeePrice),
	}
}

// CredentialsForm is shared by register and login.
type CredentialsForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
