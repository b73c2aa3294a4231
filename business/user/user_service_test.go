package user

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"smartShop/domain"
	"smartShop/internal/repository/postgres"
	"smartShop/pkg/database"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*userService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "users_test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, db.Create(&domain.Product{ID: "LAP1001", Name: "Aero 14", Category: "laptop", Price: 999}).Error)

	svc := NewUserService(
		postgres.NewUserRepository(db),
		postgres.NewUserEventRepository(db),
		postgres.NewProductRepository(db),
		validator.New(),
	)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC) }
	return svc, db
}

func ptr(v float64) *float64 { return &v }

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := &domain.UserProfile{
		ID:                  "U100",
		Name:                "Casey",
		PreferredCategories: []string{"smart_tv", "speaker"},
		BudgetMin:           ptr(150),
		BudgetMax:           ptr(900),
	}
	_, err := svc.CreateUser(ctx, in)
	require.NoError(t, err)

	got, err := svc.GetUserByID(ctx, "U100")
	require.NoError(t, err)
	assert.Equal(t, "U100", got.ID)
	assert.Equal(t, "Casey", got.Name)
	assert.Equal(t, []string{"smart_tv", "speaker"}, []string(got.PreferredCategories))
	assert.Equal(t, 150.0, *got.BudgetMin)
	assert.Equal(t, 900.0, *got.BudgetMax)

	_, err = svc.CreateUser(ctx, &domain.UserProfile{ID: "U100", Name: "Dup"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	_, err = svc.CreateUser(ctx, &domain.UserProfile{ID: " ", Name: "Nobody"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestUpdateUserPartial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, &domain.UserProfile{ID: "U200", Name: "Jo", PreferredCategories: []string{"laptop"}, BudgetMin: ptr(1), BudgetMax: ptr(2)})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, "U200", domain.UserProfileUpdate{BudgetMin: ptr(300)})
	require.NoError(t, err)
	assert.Equal(t, "Jo", updated.Name)
	assert.Equal(t, []string{"laptop"}, []string(updated.PreferredCategories))
	assert.Equal(t, 300.0, *updated.BudgetMin)
	assert.Nil(t, updated.BudgetMax)

	name := "Jordan"
	updated, err = svc.UpdateUser(ctx, "U200", domain.UserProfileUpdate{Name: &name, PreferredCategories: []string{}})
	require.NoError(t, err)
	assert.Equal(t, "Jordan", updated.Name)
	assert.Empty(t, updated.PreferredCategories)

	stored, err := svc.GetUserByID(ctx, "U200")
	require.NoError(t, err)
	assert.Equal(t, updated.Name, stored.Name)
	assert.Nil(t, stored.BudgetMin)

	_, err = svc.UpdateUser(ctx, "U404", domain.UserProfileUpdate{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRecordEvent(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, &domain.UserProfile{ID: "U300", Name: "Ari"})
	require.NoError(t, err)

	ok, err := svc.RecordEvent(ctx, domain.UserEvent{UserID: "U300", ProductID: "LAP1001", EventType: "wishlist"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.RecordEvent(ctx, domain.UserEvent{UserID: "U999", ProductID: "LAP1001", EventType: "view"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.RecordEvent(ctx, domain.UserEvent{UserID: "U300", ProductID: "NOPE1", EventType: "view"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.RecordEvent(ctx, domain.UserEvent{UserID: "U300", ProductID: "LAP1001", EventType: "click"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	var events []domain.UserEvent
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, "wishlist", events[0].EventType)
	assert.Equal(t, "2025-06-01", events[0].CreatedAt.Format("2006-01-02"))
}
