package services

import (
	"context"
	"net/mail"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/data/repos"
	types "github.com/yungbote/inspect-backend/internal/domain"
	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{2,64}$`)

type UserService interface {
	Create(ctx context.Context, username, email string) (*types.User, error)
	GetByID(ctx context.Context, id uint64) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) Create(ctx context.Context, username, email string) (*types.User, error) {
	const op = "users.create"
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if !usernamePattern.MatchString(username) {
		return nil, domainagg.Validation(op, "username must be 2-64 letters, digits, dots, dashes or underscores")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domainagg.Validation(op, "invalid email")
	}
	created, err := us.userRepo.Create(dbctx.New(ctx), []*types.User{{Username: username, Email: email}})
	if err != nil {
		return nil, storeErr(op, err, "")
	}
	us.log.Info("User created", "user_id", created[0].ID)
	return created[0], nil
}

func (us *userService) GetByID(ctx context.Context, id uint64) (*types.User, error) {
	const op = "users.get"
	u, err := us.userRepo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, storeErr(op, err, "")
	}
	if u == nil {
		return nil, domainagg.NotFound(op, "user not found")
	}
	return u, nil
}
