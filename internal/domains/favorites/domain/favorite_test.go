package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFavoriteSet_ToggleTwiceRestoresMembership(t *testing.T) {
	set := NewFavoriteSet("a")

	require.False(t, set.Toggle("a"))
	require.True(t, set.Toggle("a"))
	require.True(t, set.Contains("a"))
	require.Equal(t, 1, set.Len())
}

func TestFavoriteSet_RepeatedTogglesNeverDuplicate(t *testing.T) {
	var set FavoriteSet
	for i := 0; i < 5; i++ {
		set.Toggle("x")
	}
	require.True(t, set.Contains("x"))
	require.Equal(t, []ItemID{"x"}, set.IDs())
}

func TestFavoriteSet_KeepsInsertionOrder(t *testing.T) {
	set := NewFavoriteSet("b", "a", "b", "c")
	require.Equal(t, []ItemID{"b", "a", "c"}, set.IDs())

	require.True(t, set.Remove("a"))
	require.False(t, set.Remove("a"))
	require.Equal(t, []ItemID{"b", "c"}, set.IDs())
}

func TestFavoriteSet_IDsIsDefensiveCopy(t *testing.T) {
	set := NewFavoriteSet("a", "b")
	ids := set.IDs()
	ids[0] = "z"
	require.Equal(t, []ItemID{"a", "b"}, set.IDs())

	clone := set.Clone()
	clone.Add("c")
	require.False(t, set.Contains("c"))
}

func TestFavoriteSet_ZeroValue(t *testing.T) {
	var set FavoriteSet
	require.False(t, set.Contains("a"))
	require.False(t, set.Remove("a"))
	require.Empty(t, set.IDs())
}

func TestMerge_UnionWithoutDuplicates(t *testing.T) {
	merged := Merge([]ItemID{"b", "c"}, []ItemID{"a", "b"})
	require.Equal(t, []ItemID{"b", "c", "a"}, merged.IDs())
}

func TestMerge_EmptySides(t *testing.T) {
	require.Equal(t, []ItemID{"a"}, func() []ItemID { s := Merge(nil, []ItemID{"a"}); return s.IDs() }())
	require.Equal(t, []ItemID{"a"}, func() []ItemID { s := Merge([]ItemID{"a"}, nil); return s.IDs() }())
	empty := Merge(nil, nil)
	require.Zero(t, empty.Len())
}

func TestItemID_Valid(t *testing.T) {
	require.True(t, ItemID("cat-1").Valid())
	require.False(t, ItemID("  ").Valid())
	require.False(t, ItemID("").Valid())

	require.True(t, ItemID(strings.Repeat("é", MaxItemIDLength)).Valid())
	require.False(t, ItemID(strings.Repeat("x", MaxItemIDLength+1)).Valid())
}

func TestContextFor(t *testing.T) {
	require.True(t, ContextFor(nil).Equal(Anonymous()))
	require.True(t, ContextFor(&Identity{UserID: " "}).Equal(Anonymous()))

	ctx := ContextFor(&Identity{UserID: "u1"})
	require.True(t, ctx.IsAuthenticated())
	require.Equal(t, "authenticated:u1", ctx.String())
	require.False(t, ctx.Equal(Authenticated("u2")))
	require.False(t, Unresolved().Resolved())
	require.True(t, Anonymous().Resolved())
}
