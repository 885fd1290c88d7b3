package model

// Actor is the authenticated identity threaded explicitly into every core
// operation. There is no ambient session lookup; handlers build it from the
// verified token, internal flows use System().
type Actor struct {
	UserID int64
	Role   Role
}

// System is the actor for service-originated transitions (payment
// notifications, label minting).
func System() Actor {
	return Actor{UserID: 0, Role: RoleSystem}
}
