package mapper

import (
	"time"

	"github.com/Apurer/cat-haven/internal/domains/cats/ports"
)

// RegisterCat is the inbound payload for listing a new cat.
type RegisterCat struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name" binding:"required"`
	Breed       string   `json:"breed,omitempty"`
	AgeMonths   int      `json:"ageMonths,omitempty" binding:"gte=0"`
	Sex         string   `json:"sex,omitempty" binding:"omitempty,oneof=female male unknown"`
	Description string   `json:"description,omitempty"`
	PhotoURLs   []string `json:"photoUrls" binding:"required,min=1,dive,url"`
	Status      string   `json:"status,omitempty" binding:"omitempty,oneof=available reserved adopted"`
}

// Cat is the HTTP representation of a catalog entry.
type Cat struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Breed       string    `json:"breed,omitempty"`
	AgeMonths   int       `json:"ageMonths"`
	Sex         string    `json:"sex"`
	Description string    `json:"description,omitempty"`
	PhotoURLs   []string  `json:"photoUrls"`
	Status      string    `json:"status"`
	Adoptable   bool      `json:"adoptable"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// ToRegisterInput maps the transport payload onto the service input.
func ToRegisterInput(payload RegisterCat) ports.RegisterCatInput {
	return ports.RegisterCatInput{
		ID:          payload.ID,
		Name:        payload.Name,
		Breed:       payload.Breed,
		AgeMonths:   payload.AgeMonths,
		Sex:         payload.Sex,
		Description: payload.Description,
		PhotoURLs:   append([]string{}, payload.PhotoURLs...),
		Status:      payload.Status,
	}
}

// FromStored maps a stored cat onto its transport shape.
func FromStored(p *ports.StoredCat) Cat {
	if p == nil || p.Cat == nil {
		return Cat{}
	}
	c := p.Cat
	return Cat{
		ID:          c.ID,
		Name:        c.Name,
		Breed:       c.Breed,
		AgeMonths:   c.AgeMonths,
		Sex:         string(c.Sex),
		Description: c.Description,
		PhotoURLs:   append([]string{}, c.PhotoURLs...),
		Status:      string(c.Status),
		Adoptable:   c.Adoptable(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FromStoredList maps a list, never returning nil so it encodes as [].
func FromStoredList(list []*ports.StoredCat) []Cat {
	out := make([]Cat, 0, len(list))
	for _, p := range list {
		if p == nil {
			continue
		}
		out = append(out, FromStored(p))
	}
	return out
}
