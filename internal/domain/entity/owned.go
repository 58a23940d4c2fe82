package entity

// Owned is implemented by every entity whose mutation is restricted to the
// user recorded as its owner at creation time.
type Owned interface {
	OwnerID() string
}
