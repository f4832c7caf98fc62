package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/cafehub/pkg/validate"
)

type cafeInput struct {
	Name    string `json:"name"    validate:"required,max=10"`
	MapURL  string `json:"map_url" validate:"required,url"`
	Contact string `json:"contact" validate:"nullable,email"`
	Wifi    string `json:"wifi"    validate:"nullable,boolean"`
	Seats   int    `json:"seats"   validate:"min=1"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(cafeInput{
		Name:   "Joe's",
		MapURL: "https://maps.example.com/joes",
		Wifi:   "1",
		Seats:  4,
	})
	assert.False(t, validate.HasErrors(errs), errs)
}

func TestRequired(t *testing.T) {
	errs := validate.Struct(&cafeInput{Name: "   ", Seats: 1})
	assert.Equal(t, "The name field is required.", errs["name"])
	assert.Equal(t, "The map_url field is required.", errs["map_url"])
	assert.NotContains(t, errs, "contact", "nullable skips empty values")
}

func TestURLRequiresHTTPScheme(t *testing.T) {
	for _, bad := range []string{"maps.example.com", "ftp://example.com/x", "javascript:alert(1)", "https://"} {
		errs := validate.Struct(cafeInput{Name: "x", MapURL: bad, Seats: 1})
		assert.Equal(t, "The map_url must be a valid URL.", errs["map_url"], bad)
	}
}

func TestMaxAndMin(t *testing.T) {
	errs := validate.Struct(cafeInput{Name: "a very long cafe name", MapURL: "http://x.io", Seats: 0})
	assert.Equal(t, "The name must not exceed 10 characters.", errs["name"])
	assert.Equal(t, "The seats must be at least 1.", errs["seats"])
}

func TestEmailAndBoolean(t *testing.T) {
	errs := validate.Struct(cafeInput{Name: "x", MapURL: "http://x.io", Contact: "nope", Wifi: "maybe", Seats: 1})
	assert.Equal(t, "The contact must be a valid email address.", errs["contact"])
	assert.Equal(t, "The wifi field must be true or false.", errs["wifi"])
}

func TestNonStruct(t *testing.T) {
	assert.Empty(t, validate.Struct("not a struct"))
}
