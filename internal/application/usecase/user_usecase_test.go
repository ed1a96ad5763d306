package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/application/usecase"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
)

func newUserUseCase(t *testing.T) (*usecase.UserUseCase, *memDB) {
	t.Helper()
	db := newMemDB()
	admin, err := usecase.NewUser(companyA, "Ana Admin", "ana@tienda.co", "secreto-123", []string{entity.RoleAdmin})
	require.NoError(t, err)
	admin.ID = adminAID
	db.users[admin.ID] = *admin
	return usecase.NewUserUseCase(memUsers{db}), db
}

func boolPtr(v bool) *bool { return &v }

func TestUserCreate_NormalizaEmailYHasheaPassword(t *testing.T) {
	uc, db := newUserUseCase(t)

	u, err := uc.Create(context.Background(), adminA, dto.CreateUserRequest{
		Email: "  Caja1@Tienda.CO ", Password: "caja-2024!", Name: "Caja 1",
		Roles: []string{entity.RoleEmployee, entity.RoleEmployee},
	})
	require.NoError(t, err)

	assert.Equal(t, "caja1@tienda.co", u.Email)
	assert.Equal(t, companyA, u.CompanyID)
	assert.Equal(t, []string{entity.RoleEmployee}, u.Roles)
	assert.True(t, u.IsActive)
	stored := db.users[u.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("caja-2024!")))
}

func TestUserCreate_EmailDuplicadoEntreEmpresas(t *testing.T) {
	uc, _ := newUserUseCase(t)

	_, err := uc.Create(context.Background(), adminB, dto.CreateUserRequest{
		Email: "ANA@tienda.co", Password: "otra-clave-1", Name: "Otra Ana", Roles: []string{entity.RoleAdmin},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUserCreate_RolesNoPermitidos(t *testing.T) {
	uc, _ := newUserUseCase(t)
	ctx := context.Background()

	for _, roles := range [][]string{nil, {entity.RoleSuperAdmin}, {"cajero"}} {
		_, err := uc.Create(ctx, adminA, dto.CreateUserRequest{
			Email: "x@tienda.co", Password: "password-1", Name: "X", Roles: roles,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%v", roles)
	}
}

func TestUserCreate_PasswordCorta(t *testing.T) {
	uc, _ := newUserUseCase(t)
	_, err := uc.Create(context.Background(), adminA, dto.CreateUserRequest{
		Email: "x@tienda.co", Password: "corta", Name: "X", Roles: []string{entity.RoleEmployee},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUpdate_AdminNoPuedeQuitarseSuRolNiDesactivarse(t *testing.T) {
	uc, db := newUserUseCase(t)
	ctx := context.Background()

	_, err := uc.Update(ctx, adminA, adminAID, dto.UpdateUserRequest{Roles: []string{entity.RoleEmployee}})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Update(ctx, adminA, adminAID, dto.UpdateUserRequest{IsActive: boolPtr(false)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.ErrorIs(t, uc.Delete(ctx, adminA, adminAID), domain.ErrConflict)
	assert.True(t, db.users[adminAID].IsActive)
	assert.Equal(t, []string{entity.RoleAdmin}, db.users[adminAID].Roles)
}

func TestUserUpdate_OtroUsuario(t *testing.T) {
	uc, db := newUserUseCase(t)
	ctx := context.Background()
	emp, err := uc.Create(ctx, adminA, dto.CreateUserRequest{
		Email: "emp@tienda.co", Password: "password-1", Name: "Emp", Roles: []string{entity.RoleEmployee},
	})
	require.NoError(t, err)

	name := "Empleado Uno"
	pass := "nueva-clave-9"
	updated, err := uc.Update(ctx, adminA, emp.ID, dto.UpdateUserRequest{
		Name: &name, Password: &pass,
		Roles: []string{entity.RoleEmployee, entity.RoleAdmin}, IsActive: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, []string{entity.RoleAdmin, entity.RoleEmployee}, updated.Roles)
	assert.False(t, updated.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(db.users[emp.ID].PasswordHash), []byte(pass)))

	// Otra empresa no lo encuentra.
	_, err = uc.Update(ctx, adminB, emp.ID, dto.UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, adminB, emp.ID), domain.ErrNotFound)
}

func TestUserUpdate_ConservaSuperAdmin(t *testing.T) {
	uc, db := newUserUseCase(t)
	sa, err := usecase.NewUser(companyA, "Soporte", "soporte@tienda.co", "password-1", []string{entity.RoleSuperAdmin, entity.RoleAdmin})
	require.NoError(t, err)
	db.users[sa.ID] = *sa

	updated, err := uc.Update(context.Background(), adminA, sa.ID, dto.UpdateUserRequest{Roles: []string{entity.RoleEmployee}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{entity.RoleEmployee, entity.RoleSuperAdmin}, updated.Roles)
}

func TestUserDelete_DesactivaYListaPaginada(t *testing.T) {
	uc, db := newUserUseCase(t)
	ctx := context.Background()
	emp, err := uc.Create(ctx, adminA, dto.CreateUserRequest{
		Email: "emp@tienda.co", Password: "password-1", Name: "Emp", Roles: []string{entity.RoleEmployee},
	})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, adminA, emp.ID))
	assert.False(t, db.users[emp.ID].IsActive)

	page, err := uc.List(ctx, adminA, dto.PageQuery{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 2, page.Meta.Total)
	assert.Equal(t, 2, page.Meta.LastPage)
}

func TestUserDelete_SiMismoEnMayusculas(t *testing.T) {
	uc, db := newUserUseCase(t)

	err := uc.Delete(context.Background(), adminA, strings.ToUpper(adminAID))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, db.users[adminAID].IsActive)
}
