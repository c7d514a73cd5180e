package services

import (
	"context"
	"errors"
	"testing"

	"scrap-backend/internal/auth"
	"scrap-backend/internal/config"
	"scrap-backend/internal/models"
	"scrap-backend/internal/repositories"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	byID    map[int]*models.User
	nextID  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: map[string]*models.User{},
		byID:    map[int]*models.User{},
	}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserStore) Get(ctx context.Context, id int) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserStore) List(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserStore) SetActive(ctx context.Context, id int, active bool) error {
	u, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func newUserFixture() (*UserService, *fakeUserStore) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "test"

	store := newFakeUserStore()
	return NewUserService(store, auth.NewJWTManager(cfg)), store
}

func validSignup() *models.SignupRequest {
	return &models.SignupRequest{
		Name:     "Ana",
		Email:    "ana@planta.mx",
		Password: "segura-123",
		Role:     models.RoleOperador,
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newUserFixture()

	cases := []struct {
		name   string
		mutate func(*models.SignupRequest)
	}{
		{"missing name", func(r *models.SignupRequest) { r.Name = "" }},
		{"bad email", func(r *models.SignupRequest) { r.Email = "no-arroba" }},
		{"short password", func(r *models.SignupRequest) { r.Password = "corta" }},
		{"unknown role", func(r *models.SignupRequest) { r.Role = "gerente" }},
	}

	for _, c := range cases {
		req := validSignup()
		c.mutate(req)
		if _, err := svc.Signup(context.Background(), req); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestSignupNormalizesEmailAndActivates(t *testing.T) {
	svc, store := newUserFixture()

	req := validSignup()
	req.Email = "  Ana@Planta.MX "
	user, err := svc.Signup(context.Background(), req)
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if user.Email != "ana@planta.mx" {
		t.Errorf("Email = %q, want lowercased and trimmed", user.Email)
	}
	if !user.IsActive {
		t.Error("new account is not active")
	}
	if user.PasswordHash == "segura-123" || user.PasswordHash == "" {
		t.Error("password stored without hashing")
	}
	if _, ok := store.byEmail["ana@planta.mx"]; !ok {
		t.Error("user not persisted under normalized email")
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture()

	if _, err := svc.Signup(context.Background(), validSignup()); err != nil {
		t.Fatalf("first Signup: %v", err)
	}
	if _, err := svc.Signup(context.Background(), validSignup()); err == nil {
		t.Error("duplicate email accepted")
	}
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _ := newUserFixture()
	if _, err := svc.Signup(context.Background(), validSignup()); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email: "ANA@planta.mx", Password: "segura-123",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Error("empty token")
	}
	if resp.User.Email != "ana@planta.mx" {
		t.Errorf("User.Email = %q", resp.User.Email)
	}
}

func TestLoginRejections(t *testing.T) {
	svc, store := newUserFixture()
	user, err := svc.Signup(context.Background(), validSignup())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	// Unknown account, wrong password and disabled account all surface
	// as the same credential error
	if _, err := svc.Login(context.Background(), &models.LoginRequest{
		Email: "nadie@planta.mx", Password: "segura-123",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown account: err = %v", err)
	}

	if _, err := svc.Login(context.Background(), &models.LoginRequest{
		Email: "ana@planta.mx", Password: "incorrecta",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}

	store.byID[user.ID].IsActive = false
	if _, err := svc.Login(context.Background(), &models.LoginRequest{
		Email: "ana@planta.mx", Password: "segura-123",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("disabled account: err = %v", err)
	}
}

func TestSetActiveTogglesAccount(t *testing.T) {
	svc, _ := newUserFixture()
	user, err := svc.Signup(context.Background(), validSignup())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	got, err := svc.SetActive(context.Background(), user.ID, false)
	if err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if got.IsActive {
		t.Error("account still active after disable")
	}
}
