package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, userID int64) (User, bool, error)
	Create(ctx context.Context, u *User) error
}
