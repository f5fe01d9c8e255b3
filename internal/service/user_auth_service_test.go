package service

import (
	"errors"
	"testing"

	"github.com/shopfront/internal/constants"
	"github.com/shopfront/internal/models"
)

func newTestAuthService(env *serviceTestEnv) *UserAuthService {
	return NewUserAuthService(testConfig(), env.users, env.profile)
}

func validRegisterInput(username string) RegisterInput {
	return RegisterInput{
		Username: username,
		Email:    username + "@Example.com",
		Password: "secret123",
		Payment:  validPaymentInput(),
		Shipping: validShippingInput(),
	}
}

func TestRegisterCreatesUserPaymentAndAddress(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTestAuthService(env)

	user, token, _, err := svc.Register(validRegisterInput("zoe"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Role != constants.RoleClient || user.Email != "zoe@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	claims, err := svc.ParseUserJWT(token)
	if err != nil || claims.UserID != user.ID || claims.Username != "zoe" {
		t.Fatalf("token should identify the user, claims=%+v err=%v", claims, err)
	}

	payments, err := env.profile.ListPaymentInfos(user.ID)
	if err != nil || len(payments) != 1 {
		t.Fatalf("expected one payment, got %d err=%v", len(payments), err)
	}
	addresses, err := env.profile.ListShippingAddresses(user.ID)
	if err != nil || len(addresses) != 1 {
		t.Fatalf("expected one address, got %d err=%v", len(addresses), err)
	}
}

func TestRegisterRejectsDuplicatesAndRollsBack(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTestAuthService(env)
	if _, _, _, err := svc.Register(validRegisterInput("amy")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, _, err := svc.Register(validRegisterInput("amy")); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
	dupEmail := validRegisterInput("amy2")
	dupEmail.Email = "amy@example.com"
	if _, _, _, err := svc.Register(dupEmail); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	var users, payments int64
	env.db.Model(&models.User{}).Count(&users)
	env.db.Model(&models.PaymentInfo{}).Count(&payments)
	if users != 1 || payments != 1 {
		t.Fatalf("failed registrations must not leave rows, users=%d payments=%d", users, payments)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTestAuthService(env)

	weak := validRegisterInput("ben")
	weak.Password = "short"
	if _, _, _, err := svc.Register(weak); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	badName := validRegisterInput("b!")
	if _, _, _, err := svc.Register(badName); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}
	badEmail := validRegisterInput("benny")
	badEmail.Email = "not-an-email"
	if _, _, _, err := svc.Register(badEmail); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	badCard := validRegisterInput("bennet")
	badCard.Payment.CVV = "1"
	if _, _, _, err := svc.Register(badCard); !errors.Is(err, ErrInvalidPaymentInfo) {
		t.Fatalf("expected ErrInvalidPaymentInfo, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTestAuthService(env)
	registered, _, _, err := svc.Register(validRegisterInput("cleo"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, token, _, err := svc.Login("cleo", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.ID || token == "" || user.LastLoginAt == nil {
		t.Fatalf("unexpected login result: %+v", user)
	}
	if _, _, _, err := svc.Login("cleo", "wrong-pass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestParseUserJWTRejectsForeignSecret(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTestAuthService(env)
	user := env.createUser(t, "dina", constants.RoleClient)
	token, _, err := svc.GenerateUserJWT(user)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	otherCfg := testConfig()
	otherCfg.UserJWT.SecretKey = "another-secret-key-entirely"
	other := NewUserAuthService(otherCfg, env.users, env.profile)
	if _, err := other.ParseUserJWT(token); err == nil {
		t.Fatalf("token signed with another secret should be rejected")
	}
}
