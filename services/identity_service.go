package services

import (
	"errors"
	"strings"
	"time"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"
	"backend/utils"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// IdentityService owns login, registration and principal resolution across
// the four directories.
type IdentityService struct {
	Dir       *repository.DirectoryRepository
	Log       zerolog.Logger
	jwtSecret string
	jwtTTL    time.Duration
}

func NewIdentityService(dir *repository.DirectoryRepository, log zerolog.Logger, secret string, ttl time.Duration) *IdentityService {
	return &IdentityService{Dir: dir, Log: log, jwtSecret: secret, jwtTTL: ttl}
}

type RegisterIn struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
}

func (s *IdentityService) Register(in *RegisterIn) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	count, err := s.Dir.CountUsersByEmail(email)
	if err != nil {
		return nil, apperr.Persistence("check email", err)
	}
	if count > 0 {
		return nil, apperr.Validation("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Persistence("hash password", err)
	}

	user := &entity.User{
		Email:       email,
		Password:    string(hashed),
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
	}
	if err := s.Dir.CreateUser(user); err != nil {
		return nil, apperr.Persistence("create user", err)
	}
	s.Log.Info().Uint("user_id", user.ID).Str("email", email).Msg("user registered")
	return user, nil
}

// Login checks the directories in the same priority order as Resolve, so a
// token always resolves back to the directory it was issued against.
func (s *IdentityService) Login(email, password string) (string, entity.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	id, hash, kind, blocked := s.lookupByEmail(email)
	if kind == "" || blocked {
		return "", entity.Principal{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", entity.Principal{}, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(id, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", entity.Principal{}, apperr.Persistence("generate token", err)
	}
	p := entity.Principal{Kind: kind, ID: id, RoleName: string(kind)}
	s.Log.Info().Uint("principal_id", id).Str("kind", string(kind)).Msg("login")
	return token, p, nil
}

func (s *IdentityService) lookupByEmail(email string) (uint, string, entity.PrincipalKind, bool) {
	if a, err := s.Dir.FindAdminByEmail(email); err == nil {
		return a.ID, a.Password, entity.PrincipalAdmin, a.Blocked
	}
	if u, err := s.Dir.FindUserByEmail(email); err == nil {
		return u.ID, u.Password, entity.PrincipalUser, u.Blocked
	}
	if r, err := s.Dir.FindRestaurantByEmail(email); err == nil {
		return r.ID, r.Password, entity.PrincipalRestaurant, r.Blocked
	}
	if d, err := s.Dir.FindDriverByEmail(email); err == nil {
		return d.ID, d.Password, entity.PrincipalDriver, d.Blocked
	}
	return 0, "", "", false
}

// Resolve turns a bearer token into a Principal by trying the directories
// in fixed priority order: admin, user, restaurant, driver. Blocked
// records never resolve.
func (s *IdentityService) Resolve(tokenStr string) (entity.Principal, error) {
	claims, err := utils.ParseToken(tokenStr, s.jwtSecret)
	if err != nil {
		return entity.Principal{}, err
	}
	return s.ResolveByID(claims.PrincipalID)
}

func (s *IdentityService) ResolveByID(id uint) (entity.Principal, error) {
	if a, err := s.Dir.FindAdminByID(id); err == nil {
		if a.Blocked {
			return entity.Principal{}, apperr.State("account is blocked")
		}
		return entity.Principal{Kind: entity.PrincipalAdmin, ID: a.ID, RoleName: "admin"}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Principal{}, apperr.Persistence("resolve principal", err)
	}

	if u, err := s.Dir.FindUserByID(id); err == nil {
		if u.Blocked {
			return entity.Principal{}, apperr.State("account is blocked")
		}
		return entity.Principal{Kind: entity.PrincipalUser, ID: u.ID, RoleName: "user"}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Principal{}, apperr.Persistence("resolve principal", err)
	}

	if r, err := s.Dir.FindRestaurantByID(id); err == nil {
		if r.Blocked {
			return entity.Principal{}, apperr.State("account is blocked")
		}
		return entity.Principal{Kind: entity.PrincipalRestaurant, ID: r.ID, RoleName: "restaurant"}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Principal{}, apperr.Persistence("resolve principal", err)
	}

	if d, err := s.Dir.FindDriverByID(id); err == nil {
		if d.Blocked {
			return entity.Principal{}, apperr.State("account is blocked")
		}
		return entity.Principal{Kind: entity.PrincipalDriver, ID: d.ID, RoleName: "driver"}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Principal{}, apperr.Persistence("resolve principal", err)
	}

	return entity.Principal{}, apperr.NotFound("principal %d not found", id)
}
