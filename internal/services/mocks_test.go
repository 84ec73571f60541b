package services_test

import (
	"context"

	"github.com/pestpro/pestpro-api/internal/models"
	"github.com/pestpro/pestpro-api/pkg/crm"
	"github.com/pestpro/pestpro-api/pkg/mailer"
	"github.com/stretchr/testify/mock"
)

// MockCRMClient is a mock implementation of CRMClient
type MockCRMClient struct {
	mock.Mock
}

func (m *MockCRMClient) CreateInquiry(ctx context.Context, inq crm.Inquiry) (*crm.InquiryResponse, error) {
	args := m.Called(ctx, inq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.InquiryResponse), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockNotifier) SendLeadNotification(ctx context.Context, n mailer.Notification) error {
	return m.Called(ctx, n).Error(0)
}

// MockLeadJournal is a mock implementation of repository.LeadJournal
type MockLeadJournal struct {
	mock.Mock
}

func (m *MockLeadJournal) Record(ctx context.Context, rec *models.LeadRecord) error {
	return m.Called(ctx, rec).Error(0)
}
