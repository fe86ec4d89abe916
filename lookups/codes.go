package lookups

// code values referenced directly by the api
// (texts for clients are served via the lookup map in the database package)

// user roles
const (
	UserRoleGuest = iota
	UserRoleMember
	UserRoleModerator
	UserRoleAdmin
)

// item types stored in the items collection ("typeCD")
const (
	ItemTypeOffer int32 = iota + 1
	ItemTypeWish
)

// subscription levels ("levelCD")
const (
	SubscriptionNone int32 = iota
	SubscriptionWatching
	SubscriptionTracking
	SubscriptionMuted
)
