package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func TestGetUser(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockUserRepository)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "found",
			path: "/users/1",
			setupMock: func(m *MockUserRepository) {
				m.On("GetByID", mock.Anything, uint(1)).
					Return(&models.User{ID: 1, Username: "alice", Status: models.RoleGuest}, nil)
			},
			expectedStatus: fiber.StatusOK,
			expectedBody:   "alice",
		},
		{
			name: "missing",
			path: "/users/2",
			setupMock: func(m *MockUserRepository) {
				m.On("GetByID", mock.Anything, uint(2)).Return(nil, models.NewNotFoundError("User", 2))
			},
			expectedStatus: fiber.StatusNotFound,
			expectedBody:   "User with ID 2 not found",
		},
		{
			name:           "invalid id",
			path:           "/users/abc",
			setupMock:      func(*MockUserRepository) {},
			expectedStatus: fiber.StatusBadRequest,
			expectedBody:   "Invalid ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)
			s := &Server{
				config:      &config.Config{Env: "test"},
				userService: service.NewUserService(mockRepo, nil, nil),
			}

			app := fiber.New()
			app.Get("/users/:id", s.GetUser)

			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.expectedStatus == fiber.StatusOK {
				user := body["user"].(map[string]any)
				assert.Equal(t, tt.expectedBody, user["username"])
				assert.NotContains(t, user, "password")
			} else {
				assert.Equal(t, tt.expectedBody, body["message"])
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
