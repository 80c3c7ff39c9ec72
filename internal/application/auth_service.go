package application

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/apperr"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/mailer"
	"github.com/oksasatya/go-task-manager/pkg/mailer/templates"
)

const profileCacheTTL = 15 * time.Minute

// AuthService owns registration, login, and the profile read-through.
// Redis and Pub are optional; a nil client just disables the cache or the
// welcome email.
type AuthService struct {
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
	Redis   *redis.Client
	Pub     *helpers.RabbitPublisher
	Logger  *logrus.Logger
	AppName string
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, pub *helpers.RabbitPublisher, logger *logrus.Logger, appName string) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Redis: rdb, Pub: pub, Logger: logger, AppName: appName}
}

// Token is an issued session credential plus its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func profileCacheKey(userID string) string {
	return "user:profile:" + userID
}

// Register creates a user and issues a session token. Email uniqueness is
// byte-wise exact; a duplicate surfaces as Conflict from the store.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, Token, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Token{}, apperr.New(apperr.Validation, "name is required")
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, Token{}, apperr.Wrap(apperr.Internal, "hash password", err)
	}

	u := &entity.User{Name: name, Email: in.Email, Password: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, Token{}, err
	}

	tok, err := s.issueToken(u.ID)
	if err != nil {
		return nil, Token{}, err
	}

	s.publishWelcomeEmail(ctx, u)
	return u, tok, nil
}

// Login validates credentials and issues a session token. Unknown email and
// wrong password produce the same Unauthorized error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, Token, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return nil, Token{}, apperr.New(apperr.Unauthorized, "invalid credentials")
		}
		return nil, Token{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, Token{}, apperr.New(apperr.Unauthorized, "invalid credentials")
	}

	tok, err := s.issueToken(u.ID)
	if err != nil {
		return nil, Token{}, err
	}
	return u, tok, nil
}

// GetProfile returns the authenticated user's own record. The redis cache is
// safe without invalidation because user records are immutable here; entries
// expire on their own.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	if s.Redis != nil {
		var cached entity.User
		found, err := helpers.RedisGetJSON(ctx, s.Redis, profileCacheKey(userID), &cached)
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("profile cache read failed")
		}
		if found {
			return &cached, nil
		}
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		// Cache the public projection only; the hash stays in the store.
		cacheable := *u
		cacheable.Password = ""
		if err := helpers.RedisSetJSON(ctx, s.Redis, profileCacheKey(userID), &cacheable, profileCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("profile cache write failed")
		}
	}
	return u, nil
}

func (s *AuthService) issueToken(userID string) (Token, error) {
	value, exp, err := s.JWT.Generate(userID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("generate token failed")
		}
		return Token{}, apperr.Wrap(apperr.Internal, "issue token", err)
	}
	return Token{Value: value, ExpiresAt: exp}, nil
}

// publishWelcomeEmail queues the welcome email job. Best effort: a broker
// failure is logged and registration still succeeds.
func (s *AuthService) publishWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: templates.Welcome,
		Data: map[string]any{
			"Name":    u.Name,
			"AppName": s.AppName,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email publish failed")
	}
}
