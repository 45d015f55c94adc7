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

func TestPropertyService_CreateProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerListingStartsPending", func(t *testing.T) {
		repo := new(MockPropertyRepo)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Property")).Return(nil)
		svc := service.NewPropertyService(repo)

		p := &domain.Property{Name: "  Beach House ", PriceCents: 250000, Status: domain.PropertyStatusApproved, RemovedByAdmin: true}
		require.NoError(t, svc.CreateProperty(ctx, ownerUser, p))

		assert.Equal(t, "Beach House", p.Name)
		assert.Equal(t, ownerUser.ID, p.OwnerID)
		assert.Equal(t, ownerUser.Email, p.OwnerEmail)
		assert.Equal(t, domain.PropertyStatusPending, p.Status)
		assert.False(t, p.RemovedByAdmin)
	})

	t.Run("RenterCannotList", func(t *testing.T) {
		repo := new(MockPropertyRepo)
		svc := service.NewPropertyService(repo)

		err := svc.CreateProperty(ctx, renterUser, &domain.Property{Name: "Cabin", PriceCents: 1000})
		assert.ErrorIs(t, err, service.ErrForbidden)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Validation", func(t *testing.T) {
		svc := service.NewPropertyService(new(MockPropertyRepo))
		assert.ErrorIs(t, svc.CreateProperty(ctx, ownerUser, &domain.Property{Name: " ", PriceCents: 1000}), service.ErrInvalidInput)
		assert.ErrorIs(t, svc.CreateProperty(ctx, ownerUser, &domain.Property{Name: "Cabin"}), service.ErrInvalidInput)
	})
}

func TestPropertyService_UpdateProperty(t *testing.T) {
	ctx := context.Background()
	stored := func() *domain.Property {
		return &domain.Property{ID: 5, OwnerID: ownerUser.ID, Name: "Cabin", Description: "Quiet", PriceCents: 100000, Status: domain.PropertyStatusApproved}
	}

	t.Run("PriceChangeNeedsReview", func(t *testing.T) {
		repo := new(MockPropertyRepo)
		repo.On("GetByID", ctx, int32(5)).Return(stored(), nil)
		repo.On("Update", ctx, mock.AnythingOfType("*domain.Property")).Return(nil)
		svc := service.NewPropertyService(repo)

		p, err := svc.UpdateProperty(ctx, ownerUser, &domain.Property{ID: 5, Name: "Cabin", Description: "Quiet", PriceCents: 120000})
		require.NoError(t, err)
		assert.Equal(t, domain.PropertyStatusPending, p.Status)
		assert.Equal(t, int64(120000), p.PriceCents)
	})

	t.Run("RenameKeepsApproval", func(t *testing.T) {
		repo := new(MockPropertyRepo)
		repo.On("GetByID", ctx, int32(5)).Return(stored(), nil)
		repo.On("Update", ctx, mock.AnythingOfType("*domain.Property")).Return(nil)
		svc := service.NewPropertyService(repo)

		p, err := svc.UpdateProperty(ctx, ownerUser, &domain.Property{ID: 5, Name: "Mountain Cabin", Description: "Quiet", PriceCents: 100000})
		require.NoError(t, err)
		assert.Equal(t, domain.PropertyStatusApproved, p.Status)
		assert.Equal(t, "Mountain Cabin", p.Name)
	})

	t.Run("OtherUserForbidden", func(t *testing.T) {
		repo := new(MockPropertyRepo)
		repo.On("GetByID", ctx, int32(5)).Return(stored(), nil)
		svc := service.NewPropertyService(repo)

		_, err := svc.UpdateProperty(ctx, otherUser, &domain.Property{ID: 5, Name: "Mine now", PriceCents: 1})
		assert.ErrorIs(t, err, service.ErrForbidden)
	})
}

func TestPropertyService_GetProperty(t *testing.T) {
	ctx := context.Background()
	pending := &domain.Property{ID: 6, OwnerID: ownerUser.ID, Name: "Loft", PriceCents: 1000, Status: domain.PropertyStatusPending}

	repo := new(MockPropertyRepo)
	repo.On("GetByID", ctx, int32(6)).Return(pending, nil)
	repo.On("GetByID", ctx, int32(99)).Return(nil, repository.ErrNotFound)
	svc := service.NewPropertyService(repo)

	_, err := svc.GetProperty(ctx, nil, 6)
	assert.ErrorIs(t, err, service.ErrPropertyNotFound)

	_, err = svc.GetProperty(ctx, otherUser, 6)
	assert.ErrorIs(t, err, service.ErrPropertyNotFound)

	p, err := svc.GetProperty(ctx, ownerUser, 6)
	require.NoError(t, err)
	assert.Equal(t, "Loft", p.Name)

	_, err = svc.GetProperty(ctx, adminUser, 6)
	assert.NoError(t, err)

	_, err = svc.GetProperty(ctx, nil, 99)
	assert.ErrorIs(t, err, service.ErrPropertyNotFound)
}

func TestPropertyService_DeleteProperty(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPropertyRepo)
	repo.On("GetByID", ctx, int32(5)).Return(&domain.Property{ID: 5, OwnerID: ownerUser.ID}, nil)
	repo.On("Delete", ctx, int32(5)).Return(nil)
	svc := service.NewPropertyService(repo)

	assert.ErrorIs(t, svc.DeleteProperty(ctx, otherUser, 5), service.ErrForbidden)
	assert.NoError(t, svc.DeleteProperty(ctx, ownerUser, 5))
	repo.AssertNumberOfCalls(t, "Delete", 1)
}
