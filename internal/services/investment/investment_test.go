package investment_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/foundersignal/billing-gateway/internal/models"
	"github.com/foundersignal/billing-gateway/internal/services/investment"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateInvestment(ctx context.Context, inv models.Investment) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreate_Success(t *testing.T) {
	repoMock := new(MockRepository)
	repoMock.On("CreateInvestment", mock.Anything, mock.MatchedBy(func(inv models.Investment) bool {
		return inv.UserID == "user-1" &&
			inv.ProjectName == "orbital-greenhouse" &&
			inv.AmountMinor == 50000 &&
			!inv.CreatedAt.IsZero()
	})).Return(nil).Once()

	service := investment.New(newNoopLogger(), repoMock)

	id, err := service.Create(context.Background(), "user-1", models.DummyInvestment{
		ProjectName: "orbital-greenhouse",
		AmountMinor: 50000,
	})
	require.NoError(t, err)

	_, err = uuid.Parse(id)
	assert.NoError(t, err, "id must be a valid uuid")
	repoMock.AssertExpectations(t)
}

func TestCreate_RepositoryError(t *testing.T) {
	repoMock := new(MockRepository)
	repoMock.On("CreateInvestment", mock.Anything, mock.Anything).
		Return(errors.New("storage unavailable")).Once()

	service := investment.New(newNoopLogger(), repoMock)

	_, err := service.Create(context.Background(), "user-1", models.DummyInvestment{
		ProjectName: "orbital-greenhouse",
		AmountMinor: 50000,
	})
	assert.Error(t, err)
}
