package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-saas-api/internal/application/auth"
	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/application/usecase"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/pkg/jwt"
)

const testSecret = "secreto-auth-test"

// ── fakes ────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func (r *fakeUserRepo) Create(context.Context, *entity.User) error { return nil }
func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.byEmail[email], nil
}
func (r *fakeUserRepo) GetByID(_ context.Context, companyID, id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUserRepo) Update(context.Context, *entity.User) error { return nil }
func (r *fakeUserRepo) ListByCompany(context.Context, string, int, int) ([]*entity.User, int, error) {
	return nil, 0, nil
}
func (r *fakeUserRepo) Deactivate(context.Context, string, string) error { return nil }

type fakeCompanyRepo struct {
	companies map[string]*entity.Company
}

func (r *fakeCompanyRepo) Create(context.Context, *entity.Company) error { return nil }
func (r *fakeCompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return r.companies[id], nil
}
func (r *fakeCompanyRepo) GetByLegalID(context.Context, string) (*entity.Company, error) {
	return nil, nil
}
func (r *fakeCompanyRepo) List(context.Context, int, int) ([]*entity.Company, int, error) {
	return nil, 0, nil
}
func (r *fakeCompanyRepo) SetActive(context.Context, string, bool) error { return nil }
func (r *fakeCompanyRepo) IsActive(_ context.Context, id string) (bool, error) {
	c := r.companies[id]
	return c != nil && c.IsActive, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func newFixture(t *testing.T) (*auth.AuthUseCase, *entity.User, *entity.Company) {
	t.Helper()
	company := &entity.Company{ID: "c1", Name: "Tienda Uno", LegalID: "900123", IsActive: true}
	user, err := usecase.NewUser(company.ID, "Ana", "Ana@Tienda.co", "clave-segura", []string{entity.RoleAdmin})
	require.NoError(t, err)

	users := &fakeUserRepo{byEmail: map[string]*entity.User{user.Email: user}}
	companies := &fakeCompanyRepo{companies: map[string]*entity.Company{company.ID: company}}
	uc := auth.NewAuthUseCase(users, companies, auth.JWTConfig{Secret: testSecret, ExpMinutes: 5, Issuer: "test"})
	return uc, user, company
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesValidas(t *testing.T) {
	uc, user, _ := newFixture(t)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "  ANA@tienda.co ", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, out.User.ID)
	assert.Equal(t, "ana@tienda.co", out.User.Email)

	claims, err := jwt.Parse(testSecret, out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "c1", claims.CompanyID)
	assert.Equal(t, []string{entity.RoleAdmin}, claims.Roles)
}

func TestLogin_PasswordIncorrectoYEmailDesconocidoSonIguales(t *testing.T) {
	uc, _, _ := newFixture(t)

	_, errPwd := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@tienda.co", Password: "otra-clave"})
	_, errEmail := uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@tienda.co", Password: "clave-segura"})

	assert.ErrorIs(t, errPwd, domain.ErrUnauthorized)
	assert.ErrorIs(t, errEmail, domain.ErrUnauthorized)
	assert.Equal(t, errPwd.Error(), errEmail.Error())
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, user, _ := newFixture(t)
	user.IsActive = false

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@tienda.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_EmpresaInactiva(t *testing.T) {
	uc, _, company := newFixture(t)
	company.IsActive = false

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@tienda.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrCompanyInactive)
}

// ── Profile ──────────────────────────────────────────────────────────────────

func TestProfile_DevuelveUsuarioYEmpresa(t *testing.T) {
	uc, user, company := newFixture(t)
	caller := domain.NewCaller(user.ID, company.ID, user.Roles)

	out, err := uc.Profile(context.Background(), caller)
	require.NoError(t, err)
	assert.Equal(t, user.ID, out.User.ID)
	assert.Equal(t, "Tienda Uno", out.Company.Name)
}

func TestProfile_UsuarioDeOtraEmpresa(t *testing.T) {
	uc, user, _ := newFixture(t)
	caller := domain.NewCaller(user.ID, "otra-empresa", user.Roles)

	_, err := uc.Profile(context.Background(), caller)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
