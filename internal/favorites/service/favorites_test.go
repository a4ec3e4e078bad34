package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/thiago536/v0-gabycommerce-structure/internal/catalog/domain"
	"github.com/thiago536/v0-gabycommerce-structure/internal/favorites/domain"
	"github.com/thiago536/v0-gabycommerce-structure/internal/favorites/event"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
	pkgkafka "github.com/thiago536/v0-gabycommerce-structure/pkg/kafka"
)

// --- Mocks ---

type mockLocalStore struct {
	mock.Mock
}

func (m *mockLocalStore) Get(ctx context.Context, sessionID string) (*domain.Favorites, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Favorites), args.Error(1)
}

func (m *mockLocalStore) Save(ctx context.Context, favorites *domain.Favorites) error {
	args := m.Called(ctx, favorites)
	return args.Error(0)
}

func (m *mockLocalStore) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type mockMirror struct {
	mock.Mock
}

func (m *mockMirror) Insert(ctx context.Context, userID, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *mockMirror) Delete(ctx context.Context, userID, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *mockMirror) LoadForUser(ctx context.Context, userID string) ([]domain.Entry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogdomain.Product), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService() (*FavoritesService, *mockLocalStore, *mockMirror, *mockCatalog) {
	local := new(mockLocalStore)
	mirror := new(mockMirror)
	catalog := new(mockCatalog)
	logger := newTestLogger()
	// Publishing is best effort; without a broker it fails silently.
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:9092"}), logger)
	producer := event.NewProducer(kafkaProducer, logger)
	svc := NewFavoritesService(local, mirror, catalog, producer, logger)
	return svc, local, mirror, catalog
}

func listWithProduct(sess Session) *domain.Favorites {
	now := time.Now().UTC()
	return &domain.Favorites{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		Items: []domain.Entry{
			{
				ProductID: "prod-1",
				Product:   domain.ProductSnapshot{ID: "prod-1", Name: "Saída de Praia", Price: 12990},
				AddedAt:   now,
			},
		},
		UpdatedAt: now,
	}
}

// --- Tests ---

func TestGet_EmptyWhenAbsent(t *testing.T) {
	svc, local, _, _ := newTestService()
	ctx := context.Background()
	sess := Session{ID: "sess-1"}

	local.On("Get", ctx, "sess-1").Return(nil, apperrors.NotFound("favorites", "sess-1"))

	favorites, err := svc.Get(ctx, sess)

	require.NoError(t, err)
	assert.Empty(t, favorites.Items)
	assert.Equal(t, "sess-1", favorites.SessionID)
}

func TestAddItem_Success(t *testing.T) {
	svc, local, _, catalog := newTestService()
	ctx := context.Background()
	sess := Session{ID: "sess-1"}

	local.On("Get", ctx, "sess-1").Return(nil, apperrors.NotFound("favorites", "sess-1"))
	catalog.On("GetProduct", ctx, "prod-1").Return(&catalogdomain.Product{
		ID:    "prod-1",
		Name:  "Saída de Praia",
		Price: 12990,
	}, nil)
	local.On("Save", ctx, mock.AnythingOfType("*domain.Favorites")).Return(nil)

	favorites, err := svc.AddItem(ctx, sess, "prod-1")

	require.NoError(t, err)
	require.Len(t, favorites.Items, 1)
	assert.Equal(t, "prod-1", favorites.Items[0].ProductID)
	assert.Equal(t, int64(12990), favorites.Items[0].Product.Price)

	local.AssertExpectations(t)
	catalog.AssertExpectations(t)
}

func TestAddItem_DuplicateIsNoop(t *testing.T) {
	svc, local, _, catalog := newTestService()
	ctx := context.Background()
	sess := Session{ID: "sess-1"}

	local.On("Get", ctx, "sess-1").Return(listWithProduct(sess), nil)

	favorites, err := svc.AddItem(ctx, sess, "prod-1")

	require.NoError(t, err)
	assert.Len(t, favorites.Items, 1)
	// No catalog fetch and no save for an already-favorited product.
	catalog.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
	local.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAddItem_UnknownProductAborts(t *testing.T) {
	svc, local, _, catalog := newTestService()
	ctx := context.Background()
	sess := Session{ID: "sess-1"}

	local.On("Get", ctx, "sess-1").Return(nil, apperrors.NotFound("favorites", "sess-1"))
	catalog.On("GetProduct", ctx, "prod-999").Return(nil, apperrors.NotFound("product", "prod-999"))

	favorites, err := svc.AddItem(ctx, sess, "prod-999")

	assert.Nil(t, favorites)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	local.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAddItem_MirrorsForUser(t *testing.T) {
	svc, local, mirror, catalog := newTestService()
	ctx := context.Background()
	sess := Session{ID: "sess-1", UserID: "user-1"}

	local.On("Get", ctx, "sess-1").Return(nil, apperrors.NotFound("favorites", "sess-1"))
	catalog.On("GetProduct", ctx, "prod-1").Return(&catalogdomain.Product{ID: "prod-1", Price: 12990}, nil)
	local.On("Save", ctx, mock.AnythingOfType("*domain.Favorites")).Return(nil)
	mirror.On("Insert", ctx, "user-1", "prod-1").Return(nil)

	_, err := svc.AddItem(ctx, sess, "prod-1")

	require.NoError(t, err)
	mirror.AssertExpectations(t)
}

func TestAddItem_MirrorFailureDoesNotSurface(t *testing.T) {
	svc, local, mirror, catalog := newTestService()
	ctx := context.Background()
	sess := Session{ID: "sess-1", UserID: "user-1"}

	local.On("Get", ctx, "sess-1").Return(nil, apperrors.NotFound("favorites", "sess-1"))
	catalog.On("GetProduct", ctx, "prod-1").Return(&catalogdomain.Product{ID: "prod-1", Price: 12990}, nil)
	local.On("Save", ctx, mock.AnythingOfType("*domain.Favorites")).Return(nil)
	mirror.On("Insert", ctx, "user-1", "prod-1").Return(errors.New("connection refused"))

	favorites, err := svc.AddItem(ctx, sess, "prod-1")

	// The local write already succeeded; the mirror failure is only logged.
	require.NoError(t, err)
	assert.Len(t, favorites.Items, 1)
}

func TestRemoveItem_Success(t *testing.T) {
	svc, local, mirror, _ := newTestService()
	ctx := context.Background()
	sess := Session{ID: "sess-1", UserID: "user-1"}

	local.On("Get", ctx, "sess-1").Return(listWithProduct(sess), nil)
	local.On("Save", ctx, mock.AnythingOfType("*domain.Favorites")).Return(nil)
	mirror.On("Delete", ctx, "user-1", "prod-1").Return(nil)

	favorites, err := svc.RemoveItem(ctx, sess, "prod-1")

	require.NoError(t, err)
	assert.Empty(t, favorites.Items)
	mirror.AssertExpectations(t)
}

func TestRemoveItem_AbsentIsNoop(t *testing.T) {
	svc, local, _, _ := newTestService()
	ctx := context.Background()
	sess := Session{ID: "sess-1"}

	local.On("Get", ctx, "sess-1").Return(listWithProduct(sess), nil)

	favorites, err := svc.RemoveItem(ctx, sess, "prod-999")

	require.NoError(t, err)
	assert.Len(t, favorites.Items, 1)
	local.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestToggle(t *testing.T) {
	svc, local, _, catalog := newTestService()
	ctx := context.Background()
	sess := Session{ID: "sess-1"}

	local.On("Get", ctx, "sess-1").Return(listWithProduct(sess), nil)
	local.On("Save", ctx, mock.AnythingOfType("*domain.Favorites")).Return(nil)

	favorites, favorited, err := svc.Toggle(ctx, sess, "prod-1")

	require.NoError(t, err)
	assert.False(t, favorited)
	assert.Empty(t, favorites.Items)
	catalog.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
}

func TestIsInFavorites(t *testing.T) {
	svc, local, _, _ := newTestService()
	ctx := context.Background()
	sess := Session{ID: "sess-1"}

	local.On("Get", ctx, "sess-1").Return(listWithProduct(sess), nil)

	got, err := svc.IsInFavorites(ctx, sess, "prod-1")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = svc.IsInFavorites(ctx, sess, "prod-2")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestLoad_ReplacesLocalWholesale(t *testing.T) {
	svc, local, mirror, _ := newTestService()
	ctx := context.Background()
	sess := Session{ID: "sess-1", UserID: "user-1"}

	remote := []domain.Entry{
		{ProductID: "prod-7", Product: domain.ProductSnapshot{ID: "prod-7", Price: 5990}, AddedAt: time.Now().UTC()},
	}
	mirror.On("LoadForUser", ctx, "user-1").Return(remote, nil)
	local.On("Save", ctx, mock.MatchedBy(func(f *domain.Favorites) bool {
		return len(f.Items) == 1 && f.Items[0].ProductID == "prod-7"
	})).Return(nil)

	favorites, err := svc.Load(ctx, sess)

	require.NoError(t, err)
	require.Len(t, favorites.Items, 1)
	assert.Equal(t, "prod-7", favorites.Items[0].ProductID)
}

func TestLoad_GuestIsNoop(t *testing.T) {
	svc, local, mirror, _ := newTestService()
	ctx := context.Background()
	sess := Session{ID: "sess-1"}

	existing := listWithProduct(sess)
	local.On("Get", ctx, "sess-1").Return(existing, nil)

	favorites, err := svc.Load(ctx, sess)

	require.NoError(t, err)
	assert.Equal(t, existing, favorites)
	mirror.AssertNotCalled(t, "LoadForUser", mock.Anything, mock.Anything)
}
