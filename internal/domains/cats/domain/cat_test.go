package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCat_Invariants(t *testing.T) {
	_, err := NewCat("", "Tom", []string{"p"})
	require.ErrorIs(t, err, ErrEmptyID)
	_, err = NewCat("c1", " ", []string{"p"})
	require.ErrorIs(t, err, ErrEmptyName)
	_, err = NewCat("c1", "Tom", []string{" "})
	require.ErrorIs(t, err, ErrEmptyPhotos)

	cat, err := NewCat(" c1 ", " Tom ", []string{"p1", "", "p2"})
	require.NoError(t, err)
	require.Equal(t, "c1", cat.ID)
	require.Equal(t, "Tom", cat.Name)
	require.Equal(t, []string{"p1", "p2"}, cat.PhotoURLs)
	require.True(t, cat.Adoptable())
	require.Equal(t, SexUnknown, cat.Sex)
}

func TestCat_UpdateStatusAndSex(t *testing.T) {
	cat, err := NewCat("c1", "Tom", []string{"p"})
	require.NoError(t, err)

	cat.UpdateStatus(StatusAdopted)
	require.False(t, cat.Adoptable())
	cat.UpdateStatus("lost")
	require.Equal(t, StatusAvailable, cat.Status)

	cat.UpdateSex(SexFemale)
	require.Equal(t, SexFemale, cat.Sex)
	cat.UpdateSex("other")
	require.Equal(t, SexUnknown, cat.Sex)

	require.ErrorIs(t, cat.UpdateAge(-1), ErrInvalidAge)
}

func TestCat_CloneIsDeep(t *testing.T) {
	cat, err := NewCat("c1", "Tom", []string{"p"})
	require.NoError(t, err)
	clone := cat.Clone()
	clone.PhotoURLs[0] = "changed"
	require.Equal(t, "p", cat.PhotoURLs[0])
}
