package user

import "context"

// Repository defines the operations for retrieving users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUID(ctx context.Context, uid string) (*User, error)
}
