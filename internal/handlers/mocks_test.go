package handlers

import (
	"context"
	"iter"

	"github.com/pestpro/pestpro-api/internal/form"
	"github.com/pestpro/pestpro-api/internal/models"
	"github.com/pestpro/pestpro-api/pkg/geocode"
	"github.com/stretchr/testify/mock"
)

// MockLeadService is a mock implementation of services.LeadServiceInterface
type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) Submit(ctx context.Context, kind form.Kind, d form.Data) (*models.SubmissionOutcome, error) {
	args := m.Called(ctx, kind, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmissionOutcome), args.Error(1)
}

// MockAddressResolver is a mock implementation of services.AddressResolverInterface
type MockAddressResolver struct {
	mock.Mock
}

func (m *MockAddressResolver) Suggest(ctx context.Context, partial string) iter.Seq[string] {
	suggestions := m.Called(ctx, partial).Get(0).([]string)
	return func(yield func(string) bool) {
		for _, s := range suggestions {
			if !yield(s) {
				return
			}
		}
	}
}

func (m *MockAddressResolver) Resolve(ctx context.Context, suggestion string) (geocode.Place, error) {
	args := m.Called(ctx, suggestion)
	return args.Get(0).(geocode.Place), args.Error(1)
}

func (m *MockAddressResolver) Reverse(ctx context.Context, lat, lng float64) (geocode.Place, error) {
	args := m.Called(ctx, lat, lng)
	return args.Get(0).(geocode.Place), args.Error(1)
}
