// Package store holds the user repository of the example application.
package store

import (
	"fmt"

	"github.com/Ngone6325/autoinject"
)

// IUserRepo reads users. Registered as a singleton.
type IUserRepo interface {
	GetUserID() int64
	// InstanceID identifies the repository instance, to show it is shared.
	InstanceID() string
}

type UserRepo struct {
	autoinject.Inject[IUserRepo] `inject:"singleton"`

	DSN string
	id  string
}

func NewUserRepo() *UserRepo {
	repo := &UserRepo{DSN: "memory://users"}
	repo.id = fmt.Sprintf("%p", repo)
	return repo
}

func (r *UserRepo) GetUserID() int64   { return 10086 }
func (r *UserRepo) InstanceID() string { return r.id }
