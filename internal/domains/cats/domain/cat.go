package domain

import (
	"errors"
	"strings"
)

// Status represents where a cat is in the adoption process.
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusAdopted   Status = "adopted"
)

// Sex of the animal as recorded by the shelter.
type Sex string

const (
	SexUnknown Sex = "unknown"
	SexFemale  Sex = "female"
	SexMale    Sex = "male"
)

// Cat is an adoptable animal record. Its ID is what favorites refer to.
type Cat struct {
	ID          string
	Name        string
	Breed       string
	AgeMonths   int
	Sex         Sex
	Description string
	PhotoURLs   []string
	Status      Status
}

var (
	ErrEmptyID     = errors.New("cat id is required")
	ErrEmptyName   = errors.New("cat name is required")
	ErrEmptyPhotos = errors.New("at least one photo url is required")
	ErrInvalidAge  = errors.New("age must be greater or equal to zero")
)

// NewCat validates the invariants and builds a new Cat listed as available.
func NewCat(id, name string, photoURLs []string) (*Cat, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyID
	}
	c := &Cat{ID: id, Sex: SexUnknown, Status: StatusAvailable}
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	if err := c.ReplacePhotos(photoURLs); err != nil {
		return nil, err
	}
	return c, nil
}

// Rename mutates the name ensuring the invariant.
func (c *Cat) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	c.Name = name
	return nil
}

// ReplacePhotos keeps at least one photo.
func (c *Cat) ReplacePhotos(urls []string) error {
	cleaned := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			cleaned = append(cleaned, u)
		}
	}
	if len(cleaned) == 0 {
		return ErrEmptyPhotos
	}
	c.PhotoURLs = cleaned
	return nil
}

// UpdateAge stores the age in months.
func (c *Cat) UpdateAge(months int) error {
	if months < 0 {
		return ErrInvalidAge
	}
	c.AgeMonths = months
	return nil
}

// UpdateSex falls back to unknown for unrecognized values.
func (c *Cat) UpdateSex(sex Sex) {
	switch sex {
	case SexFemale, SexMale:
		c.Sex = sex
	default:
		c.Sex = SexUnknown
	}
}

// UpdateStatus validates known lifecycle values; unknown values reset to available.
func (c *Cat) UpdateStatus(status Status) {
	switch status {
	case StatusAvailable, StatusReserved, StatusAdopted:
		c.Status = status
	default:
		c.Status = StatusAvailable
	}
}

// Describe sets the free-form profile fields.
func (c *Cat) Describe(breed, description string) {
	c.Breed = strings.TrimSpace(breed)
	c.Description = strings.TrimSpace(description)
}

// Adoptable reports whether the cat can still be requested.
func (c *Cat) Adoptable() bool {
	return c.Status == StatusAvailable
}

// Validate re-applies the invariants before persistence.
func (c *Cat) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrEmptyID
	}
	if err := c.Rename(c.Name); err != nil {
		return err
	}
	if err := c.ReplacePhotos(c.PhotoURLs); err != nil {
		return err
	}
	return c.UpdateAge(c.AgeMonths)
}

// Clone returns a deep copy.
func (c *Cat) Clone() *Cat {
	if c == nil {
		return nil
	}
	clone := *c
	clone.PhotoURLs = append([]string{}, c.PhotoURLs...)
	return &clone
}
