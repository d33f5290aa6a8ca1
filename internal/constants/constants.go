package constants

// Pagination
const (
	DefaultPageSize = 20
	MaxPageSize     = 1000
	MinPage         = 1
)

// Context keys set by the auth middleware.
const (
	ContextKeyUserID  = "user_id"
	ContextKeyTokenID = "token_id"
)

// Field bounds shared between validation and tests.
const (
	MinWeight         = 1
	MaxWeight         = 10
	MinYear           = 1990
	MaxFullNameLen    = 150
	MaxAddressLen     = 200
	MaxIDNumberLen    = 12
	MaxCommentLen     = 1000
	MinPasswordLength = 8
	MaxAvatarBytes    = 1 << 20
)
