package service

import (
	"errors"

	"formapro_backend/internal/config"
	"formapro_backend/internal/model"
	"formapro_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	Users UserStore
	Cfg   *config.Config
}

func NewAuthService(users UserStore, cfg *config.Config) *AuthService {
	return &AuthService{Users: users, Cfg: cfg}
}

type RegisterInput struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Workplace string `json:"workplace"`
	Language  string `json:"language"`
}

func (s *AuthService) Register(in RegisterInput) (*model.User, error) {
	if _, err := s.Users.FindByEmail(in.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  string(hash),
		Role:      model.Learner,
		Workplace: in.Workplace,
		Language:  in.Language,
	}
	if user.Language == "" {
		user.Language = "fr"
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login returns a signed token. Wrong email and wrong password produce the
// same error so the endpoint does not leak which accounts exist.
func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.Users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if user.Disabled {
		return "", nil, util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	if err := s.Users.UpdateLastLogin(user.ID); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) Profile(userID uint) (*model.User, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name      string `json:"name" binding:"omitempty,min=2,max=100"`
	Workplace string `json:"workplace"`
	Language  string `json:"language" binding:"omitempty,min=2,max=10"`
	Avatar    string `json:"avatar"`
}

func (s *AuthService) UpdateProfile(userID uint, in UpdateProfileInput) (*model.User, error) {
	user, err := s.Profile(userID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Workplace != "" {
		user.Workplace = in.Workplace
	}
	if in.Language != "" {
		user.Language = in.Language
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}
	if err := s.Users.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}
