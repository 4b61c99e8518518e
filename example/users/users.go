// Package users holds the user services of the example application, one per lifetime.
package users

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ngone6325/autoinject"
	"github.com/Ngone6325/autoinject/example/store"
)

type IUserService interface {
	GetUserName() string
	RepoID() string
}

// UserService is created for every resolution.
type UserService struct {
	autoinject.Inject[IUserService] `inject:"transient"`

	repo store.IUserRepo
}

func NewUserService(repo store.IUserRepo) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetUserName() string { return fmt.Sprintf("user_%d", s.repo.GetUserID()) }
func (s *UserService) RepoID() string      { return s.repo.InstanceID() }

type IUserLog interface {
	LogUserID(action string) string
	RequestID() string
}

// UserLog lives as long as its scope, one request in the example server.
type UserLog struct {
	autoinject.Inject[IUserLog] `inject:"scoped"`

	repo      store.IUserRepo
	logger    *zap.Logger
	requestID string
}

func NewUserLog(repo store.IUserRepo, logger *zap.Logger) *UserLog {
	id := uuid.NewString()
	return &UserLog{
		repo:      repo,
		logger:    logger.With(zap.String("request_id", id)),
		requestID: id,
	}
}

func (l *UserLog) LogUserID(action string) string {
	line := fmt.Sprintf("user_log: user_id=%d action=%s", l.repo.GetUserID(), action)
	l.logger.Info(line)
	return line
}

func (l *UserLog) RequestID() string { return l.requestID }

// Greeter registers under its own type with the default scoped lifetime.
type Greeter struct {
	autoinject.Injectable

	users IUserService
	log   IUserLog
}

func NewGreeter(users IUserService, log IUserLog) *Greeter {
	return &Greeter{users: users, log: log}
}

func (g *Greeter) Greet(name string) string {
	g.log.LogUserID("greet")
	return fmt.Sprintf("hello %s, from %s", name, g.users.GetUserName())
}
