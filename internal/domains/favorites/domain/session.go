package domain

import "strings"

// Identity is the signed-in user as reported by the identity provider.
// A nil *Identity means nobody is signed in.
type Identity struct {
	UserID string
}

// SessionKind enumerates the identity states a favorites session can be in.
type SessionKind int

const (
	SessionUnresolved SessionKind = iota
	SessionAnonymous
	SessionAuthenticated
)

func (k SessionKind) String() string {
	switch k {
	case SessionAnonymous:
		return "anonymous"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unresolved"
	}
}

// SessionContext is the identity context favorites are loaded and persisted for.
type SessionContext struct {
	Kind   SessionKind
	UserID string
}

// Unresolved is the context before the identity provider has reported anything.
func Unresolved() SessionContext {
	return SessionContext{Kind: SessionUnresolved}
}

// Anonymous is the signed-out context.
func Anonymous() SessionContext {
	return SessionContext{Kind: SessionAnonymous}
}

// Authenticated is the signed-in context for userID.
func Authenticated(userID string) SessionContext {
	return SessionContext{Kind: SessionAuthenticated, UserID: strings.TrimSpace(userID)}
}

// ContextFor maps an identity notification to its session context. Identities with a
// blank user id are treated as anonymous.
func ContextFor(identity *Identity) SessionContext {
	if identity == nil || strings.TrimSpace(identity.UserID) == "" {
		return Anonymous()
	}
	return Authenticated(identity.UserID)
}

// IsAuthenticated reports whether favorites belong to a signed-in user.
func (c SessionContext) IsAuthenticated() bool {
	return c.Kind == SessionAuthenticated
}

// Resolved reports whether the identity provider has answered at least once.
func (c SessionContext) Resolved() bool {
	return c.Kind != SessionUnresolved
}

// Equal compares two contexts.
func (c SessionContext) Equal(other SessionContext) bool {
	return c.Kind == other.Kind && c.UserID == other.UserID
}

func (c SessionContext) String() string {
	if c.Kind == SessionAuthenticated {
		return c.Kind.String() + ":" + c.UserID
	}
	return c.Kind.String()
}
