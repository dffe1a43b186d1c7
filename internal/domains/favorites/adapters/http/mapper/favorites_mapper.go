package mapper

import (
	"github.com/Apurer/cat-haven/internal/domains/favorites/domain"
)

// SignIn is the payload that binds a device to a user.
type SignIn struct {
	UserID string `json:"userId" binding:"required"`
}

// Session describes which identity a device's favorites are bound to.
type Session struct {
	Kind    string `json:"kind"`
	UserID  string `json:"userId,omitempty"`
	Loading bool   `json:"loading"`
}

// FavoriteIDs is the ordered list of favorited item ids.
type FavoriteIDs struct {
	IDs []string `json:"ids"`
}

// FavoriteStatus reports the membership of one item.
type FavoriteStatus struct {
	ItemID   string `json:"itemId"`
	Favorite bool   `json:"favorite"`
}

func FromSession(session domain.SessionContext, loading bool) Session {
	return Session{Kind: session.Kind.String(), UserID: session.UserID, Loading: loading}
}

func FromIDs(ids []domain.ItemID) FavoriteIDs {
	return FavoriteIDs{IDs: ToStrings(ids)}
}

func FromMembership(id domain.ItemID, favorite bool) FavoriteStatus {
	return FavoriteStatus{ItemID: string(id), Favorite: favorite}
}

// ToStrings converts item ids for consumers keyed by plain strings, such as the cat catalog.
func ToStrings(ids []domain.ItemID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}
