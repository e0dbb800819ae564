package entity

type PrincipalKind string

const (
	PrincipalAdmin      PrincipalKind = "admin"
	PrincipalUser       PrincipalKind = "user"
	PrincipalRestaurant PrincipalKind = "restaurant"
	PrincipalDriver     PrincipalKind = "driver"
)

// Principal is the tagged union produced by identity resolution: one
// authenticated actor from one of the four directories.
type Principal struct {
	Kind     PrincipalKind `json:"kind"`
	ID       uint          `json:"id"`
	RoleName string        `json:"roleName"`
}

// Actor labels for cancellation bookkeeping.
const (
	ActorCustomer   = "customer"
	ActorRestaurant = "restaurant"
	ActorSystem     = "system"
)

func ValidCancelActor(a string) bool {
	return a == ActorCustomer || a == ActorRestaurant || a == ActorSystem
}
