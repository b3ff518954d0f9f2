package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/husainf4l/gixat/internal/entity"
	"github.com/husainf4l/gixat/internal/repository"
	"github.com/husainf4l/gixat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterOrganizationAndLogin(t *testing.T) {
	db, _, svc := newTestServices(t)

	admin, tokens, err := svc.Auth.RegisterOrganization(context.Background(), RegisterOrganizationInput{
		OrganizationName: "Desert Motors",
		AdminEmail:       "Owner@Desert.test",
		AdminPassword:    "s3cret-pass",
		AdminFirstName:   "Lina",
		AdminLastName:    "Aziz",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)
	assert.Equal(t, "owner@desert.test", admin.Email)
	assert.NotEmpty(t, tokens.AccessToken)

	var org entity.Organization
	require.NoError(t, db.First(&org, "id = ?", admin.OrganizationID).Error)
	assert.Equal(t, "Desert Motors", org.Name)
	assert.Equal(t, "USD", org.Currency)

	// the token carries the identity claims the middleware expects
	token, err := jwt.Parse(tokens.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte(testutil.TestJWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, admin.ID, claims["uid"])
	assert.Equal(t, org.ID, claims["org"])
	assert.Equal(t, entity.RoleAdmin, claims["role"])

	user, loginTokens, err := svc.Auth.Login(context.Background(), "owner@desert.test", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, user.ID)
	assert.NotEmpty(t, loginTokens.AccessToken)
	assert.NotNil(t, user.LastLoginAt)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, _, svc := newTestServices(t)

	_, _, err := svc.Auth.RegisterOrganization(context.Background(), RegisterOrganizationInput{
		OrganizationName: "Desert Motors",
		AdminEmail:       "owner@desert.test",
		AdminPassword:    "s3cret-pass",
		AdminFirstName:   "Lina",
		AdminLastName:    "Aziz",
	})
	require.NoError(t, err)

	_, _, err = svc.Auth.Login(context.Background(), "owner@desert.test", "wrong")
	assert.ErrorContains(t, err, "invalid email or password")

	_, _, err = svc.Auth.Login(context.Background(), "nobody@desert.test", "s3cret-pass")
	assert.ErrorContains(t, err, "invalid email or password")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	_, _, svc := newTestServices(t)

	input := RegisterOrganizationInput{
		OrganizationName: "Desert Motors",
		AdminEmail:       "owner@desert.test",
		AdminPassword:    "s3cret-pass",
		AdminFirstName:   "Lina",
		AdminLastName:    "Aziz",
	}
	_, _, err := svc.Auth.RegisterOrganization(context.Background(), input)
	require.NoError(t, err)

	input.OrganizationName = "Other Garage"
	_, _, err = svc.Auth.RegisterOrganization(context.Background(), input)
	assert.ErrorContains(t, err, "email already registered")
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	db, _, svc := newTestServices(t)

	admin, _, err := svc.Auth.RegisterOrganization(context.Background(), RegisterOrganizationInput{
		OrganizationName: "Desert Motors",
		AdminEmail:       "owner@desert.test",
		AdminPassword:    "s3cret-pass",
		AdminFirstName:   "Lina",
		AdminLastName:    "Aziz",
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&entity.User{}).Where("id = ?", admin.ID).Update("is_active", false).Error)

	_, _, err = svc.Auth.Login(context.Background(), "owner@desert.test", "s3cret-pass")
	assert.ErrorContains(t, err, "account is disabled")
}

func TestCloseOrganizationRemovesTenantData(t *testing.T) {
	db, _, svc := newTestServices(t)

	org := testutil.CreateOrganization(db, "Garage A")
	tech := testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)
	client := testutil.CreateClient(db, org.ID)
	car := testutil.CreateCar(db, org.ID, client.ID)
	testutil.CreateSession(db, org.ID, car.ID, tech.ID, "SES20260830001", "scheduled")

	keep := testutil.CreateOrganization(db, "Garage B")
	testutil.CreateUser(db, keep.ID, "tech@b.test", entity.RoleTechnician)

	require.NoError(t, svc.Auth.CloseOrganization(context.Background(), org.ID))

	var count int64
	for _, model := range []interface{}{
		&entity.User{}, &entity.Client{}, &entity.Car{}, &entity.Session{},
	} {
		db.Model(model).Where("organization_id = ?", org.ID).Count(&count)
		assert.Zero(t, count)
	}
	db.Model(&entity.Organization{}).Where("id = ?", org.ID).Count(&count)
	assert.Zero(t, count)

	db.Model(&entity.User{}).Where("organization_id = ?", keep.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	err := svc.Auth.CloseOrganization(context.Background(), org.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCurrentUserCapabilities(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	manager := testutil.CreateUser(db, org.ID, "mgr@a.test", entity.RoleManager)
	tech := testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)

	_, perms, err := svc.Auth.CurrentUser(context.Background(), manager.ID)
	require.NoError(t, err)
	assert.Contains(t, perms, "manage_inventory")
	assert.Contains(t, perms, "view_reports")
	assert.NotContains(t, perms, "manage_users")

	_, perms, err = svc.Auth.CurrentUser(context.Background(), tech.ID)
	require.NoError(t, err)
	assert.Contains(t, perms, "modify_sessions")
	assert.NotContains(t, perms, "manage_inventory")
}
