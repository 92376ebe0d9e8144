package constant

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// Context keys set by the auth middleware
const (
	CtxKeyUserEmail ContextKey = "user_email"
	CtxKeyUserRole  ContextKey = "user_role"
)

// User roles
const (
	RoleAdmin   = "admin"
	RoleRegular = "regular"
)

// Token kinds carried in the token_type claim
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)
