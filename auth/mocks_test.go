package auth

import (
	"context"

	"github.com/dwoolworth/inkwell/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) CreateUser(ctx context.Context, u *models.User, password string) (bson.ObjectID, error) {
	args := m.Called(ctx, u, password)
	return args.Get(0).(bson.ObjectID), args.Error(1)
}

func (m *MockUserStore) EnsureRole(ctx context.Context, id bson.ObjectID) (models.Role, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Role), args.Error(1)
}

func (m *MockUserStore) MarkEmailVerified(ctx context.Context, id bson.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserStore) SetPassword(ctx context.Context, id bson.ObjectID, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendVerification(ctx context.Context, to, name, token string) error {
	return m.Called(ctx, to, name, token).Error(0)
}

func (m *MockNotifier) SendPasswordReset(ctx context.Context, to, name, token string) error {
	return m.Called(ctx, to, name, token).Error(0)
}

func (m *MockNotifier) SendInvitation(ctx context.Context, to, name, token string) error {
	return m.Called(ctx, to, name, token).Error(0)
}
