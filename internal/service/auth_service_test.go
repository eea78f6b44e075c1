package service

import (
	"testing"
	"time"

	"formapro_backend/internal/config"
	"formapro_backend/internal/model"
	"formapro_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "unit-test-secret", ExpireTime: time.Hour},
	}
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	users := new(MockUserStore)
	users.On("FindByEmail", "aide@example.fr").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything).Return(nil)

	svc := NewAuthService(users, testConfig())

	user, err := svc.Register(RegisterInput{
		Name:     "Aïcha Diallo",
		Email:    "aide@example.fr",
		Password: "motdepasse123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Learner, user.Role)
	assert.Equal(t, "fr", user.Language)
	assert.NotEqual(t, "motdepasse123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("motdepasse123")))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	users := new(MockUserStore)
	users.On("FindByEmail", "aide@example.fr").Return(&model.User{Email: "aide@example.fr"}, nil)

	svc := NewAuthService(users, testConfig())

	_, err := svc.Register(RegisterInput{Name: "X Y", Email: "aide@example.fr", Password: "motdepasse123"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	user := &model.User{Email: "aide@example.fr", Password: string(hash)}
	user.ID = 7

	users := new(MockUserStore)
	users.On("FindByEmail", "aide@example.fr").Return(user, nil)

	svc := NewAuthService(users, testConfig())

	_, _, err := svc.Login("aide@example.fr", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	users := new(MockUserStore)
	users.On("FindByEmail", "nobody@example.fr").Return(nil, gorm.ErrRecordNotFound)

	svc := NewAuthService(users, testConfig())

	_, _, err := svc.Login("nobody@example.fr", "whatever")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginReturnsValidToken(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("motdepasse123"), bcrypt.DefaultCost)
	user := &model.User{Email: "aide@example.fr", Password: string(hash), Role: model.Learner}
	user.ID = 7

	users := new(MockUserStore)
	users.On("FindByEmail", "aide@example.fr").Return(user, nil)
	users.On("UpdateLastLogin", uint(7)).Return(nil)

	svc := NewAuthService(users, testConfig())

	token, out, err := svc.Login("aide@example.fr", "motdepasse123")
	require.NoError(t, err)
	assert.Equal(t, user, out)

	claims, err := util.ParseJWT(token, "unit-test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, model.Learner, claims.Role)
}

func TestLoginDisabledAccount(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("motdepasse123"), bcrypt.DefaultCost)
	user := &model.User{Email: "aide@example.fr", Password: string(hash), Disabled: true}

	users := new(MockUserStore)
	users.On("FindByEmail", "aide@example.fr").Return(user, nil)

	svc := NewAuthService(users, testConfig())

	_, _, err := svc.Login("aide@example.fr", "motdepasse123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
