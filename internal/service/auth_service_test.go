package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"daily-routine/internal/repository"
)

func newAuth(t *testing.T) *AuthService {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	return NewAuthService(repository.NewUserRepository(db))
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	auth := newAuth(t)

	in := RegisterInput{Name: "Ada", Email: " Ada@Example.com ", Password: "secret1", ConfirmPassword: "secret1"}
	user, err := auth.Register(ctx, in)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email == nil || *user.Email != "ada@example.com" || user.PasswordHash == "secret1" {
		t.Errorf("user = %+v", user)
	}

	if _, err := auth.Register(ctx, in); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate Register err = %v", err)
	}

	got, err := auth.Login(ctx, "ada@example.com", "secret1")
	if err != nil || got.ID != user.ID {
		t.Errorf("Login = %+v, %v", got, err)
	}
	if _, err := auth.Login(ctx, "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, err := auth.Login(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v", err)
	}
}

func TestConcurrentRegisterOneWins(t *testing.T) {
	ctx := context.Background()
	auth := newAuth(t)
	in := RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret1"}

	const n = 3
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = auth.Register(ctx, in)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case !errors.Is(err, ErrEmailTaken):
			t.Errorf("Register err = %v, want ErrEmailTaken", err)
		}
	}
	if won != 1 {
		t.Errorf("%d registrations succeeded, want 1", won)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	auth := newAuth(t)

	if _, err := auth.Register(ctx, RegisterInput{Name: "A", Email: "a@b.co", Password: "secret1", ConfirmPassword: "secret2"}); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("mismatch err = %v", err)
	}
	if ErrPasswordMismatch.Error() != "passwords do not match" {
		t.Errorf("message = %q", ErrPasswordMismatch.Error())
	}
	for _, in := range []RegisterInput{
		{Email: "a@b.co", Password: "secret1", ConfirmPassword: "secret1"},
		{Name: "A", Email: "not-an-email", Password: "secret1", ConfirmPassword: "secret1"},
		{Name: "A", Email: "a@b.co", Password: "123", ConfirmPassword: "123"},
	} {
		if _, err := auth.Register(ctx, in); err == nil {
			t.Errorf("Register accepted %+v", in)
		}
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	for _, stored := range []string{"", "nodollar", "!!$!!", "c2FsdA$!!"} {
		if verifyPassword(stored, "x") {
			t.Errorf("verifyPassword(%q) = true", stored)
		}
	}
}
