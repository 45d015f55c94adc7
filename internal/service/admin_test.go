package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
	"renthub-backend/internal/service"
)

type adminFixture struct {
	users      *MockUserRepo
	properties *MockPropertyRepo
	settings   *MockSettingsRepo
	messages   *MockMessageService
	svc        service.AdminService
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		users:      new(MockUserRepo),
		properties: new(MockPropertyRepo),
		settings:   new(MockSettingsRepo),
		messages:   new(MockMessageService),
	}
	f.messages.On("SendSystemMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&domain.Message{}, nil).Maybe()
	f.svc = service.NewAdminService(f.users, f.properties, f.settings, f.messages)
	return f
}

func TestAdminService_BlockUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newAdminFixture()
		f.users.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2, Role: domain.UserRoleRenter}, nil)
		f.users.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool { return u.ID == 2 && u.Blocked })).Return(nil)

		u, err := f.svc.BlockUser(ctx, adminUser, 2, true)
		require.NoError(t, err)
		assert.True(t, u.Blocked)
		assert.False(t, u.IsActive())
	})

	t.Run("CannotBlockSelf", func(t *testing.T) {
		f := newAdminFixture()
		_, err := f.svc.BlockUser(ctx, adminUser, adminUser.ID, true)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		f := newAdminFixture()
		f.users.On("GetByID", ctx, int32(42)).Return(nil, repository.ErrNotFound)
		_, err := f.svc.BlockUser(ctx, adminUser, 42, true)
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

func TestAdminService_SetUserRole(t *testing.T) {
	ctx := context.Background()

	t.Run("PromoteToOwner", func(t *testing.T) {
		f := newAdminFixture()
		f.users.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2, Role: domain.UserRoleRenter}, nil)
		f.users.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		u, err := f.svc.SetUserRole(ctx, adminUser, 2, domain.UserRoleOwner)
		require.NoError(t, err)
		assert.Equal(t, domain.UserRoleOwner, u.Role)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		f := newAdminFixture()
		_, err := f.svc.SetUserRole(ctx, adminUser, 2, domain.UserRole("superuser"))
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("CannotDemoteSelf", func(t *testing.T) {
		f := newAdminFixture()
		_, err := f.svc.SetUserRole(ctx, adminUser, adminUser.ID, domain.UserRoleRenter)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestAdminService_DeleteUserIsSoft(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	f.users.On("GetByID", ctx, int32(3)).Return(&domain.User{ID: 3, Role: domain.UserRoleOwner}, nil)
	f.users.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool { return u.ID == 3 && u.Deleted })).Return(nil)

	require.NoError(t, f.svc.DeleteUser(ctx, adminUser, 3))
	f.users.AssertExpectations(t)
}

func TestAdminService_ReviewProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("Approve", func(t *testing.T) {
		f := newAdminFixture()
		f.properties.On("GetByID", ctx, int32(5)).Return(&domain.Property{ID: 5, OwnerID: 3, Name: "Cabin", Status: domain.PropertyStatusPending, RejectionReason: "old"}, nil)
		f.properties.On("Update", ctx, mock.AnythingOfType("*domain.Property")).Return(nil)

		p, err := f.svc.ReviewProperty(ctx, adminUser, 5, true, "")
		require.NoError(t, err)
		assert.Equal(t, domain.PropertyStatusApproved, p.Status)
		assert.Empty(t, p.RejectionReason)
		f.messages.AssertCalled(t, "SendSystemMessage", ctx, int32(3), mock.Anything, mock.Anything)
	})

	t.Run("RejectWithReason", func(t *testing.T) {
		f := newAdminFixture()
		f.properties.On("GetByID", ctx, int32(5)).Return(&domain.Property{ID: 5, OwnerID: 3, Name: "Cabin", Status: domain.PropertyStatusPending}, nil)
		f.properties.On("Update", ctx, mock.AnythingOfType("*domain.Property")).Return(nil)

		p, err := f.svc.ReviewProperty(ctx, adminUser, 5, false, " blurry photos ")
		require.NoError(t, err)
		assert.Equal(t, domain.PropertyStatusRejected, p.Status)
		assert.Equal(t, "blurry photos", p.RejectionReason)
	})
}

func TestAdminService_RemoveProperty(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	f.properties.On("GetByID", ctx, int32(5)).Return(&domain.Property{ID: 5, Status: domain.PropertyStatusApproved}, nil)
	f.properties.On("Update", ctx, mock.AnythingOfType("*domain.Property")).Return(nil)

	p, err := f.svc.RemoveProperty(ctx, adminUser, 5, true)
	require.NoError(t, err)
	assert.True(t, p.RemovedByAdmin)
	assert.False(t, p.Rentable())
}

func TestSettingsService(t *testing.T) {
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("GetPaymentSettings", ctx, domain.PaymentProviderGCash).Return(nil, repository.ErrNotFound)
		_, err := service.NewSettingsService(repo).GetGCashSettings(ctx)
		assert.ErrorIs(t, err, service.ErrSettingsNotFound)
	})

	t.Run("UpdateStampsAdmin", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("UpsertPaymentSettings", ctx, mock.AnythingOfType("*domain.PaymentSettings")).Return(nil)

		s, err := service.NewSettingsService(repo).UpdateGCashSettings(ctx, adminUser, &domain.PaymentSettings{AccountName: " RentHub ", AccountNumber: "09171234567"})
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentProviderGCash, s.Provider)
		assert.Equal(t, "RentHub", s.AccountName)
		require.NotNil(t, s.UpdatedBy)
		assert.Equal(t, adminUser.ID, *s.UpdatedBy)
	})

	t.Run("UpdateRequiresAdmin", func(t *testing.T) {
		_, err := service.NewSettingsService(new(MockSettingsRepo)).UpdateGCashSettings(ctx, ownerUser, &domain.PaymentSettings{AccountName: "x", AccountNumber: "y"})
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("UpdateValidation", func(t *testing.T) {
		_, err := service.NewSettingsService(new(MockSettingsRepo)).UpdateGCashSettings(ctx, adminUser, &domain.PaymentSettings{AccountName: "RentHub"})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}
