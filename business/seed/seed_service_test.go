package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"smartShop/domain"
	"smartShop/internal/repository/postgres"
	"smartShop/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const productsCSV = "\xEF\xBB\xBFid,name,brand,category,price,description,stock,rating\n" +
	"LAP1001,Aero 14,Acme,laptop,999.99,\"Thin, light\",5,4.5\n" +
	"PHN2001,Pixelate,Orbit,smartphone,699,Camera phone,0,4.1\n"

const reviewsCSV = "product_id,rating,text,date\n" +
	"LAP1001,5,Great screen,2025-03-01\n" +
	"PHN2001,2,Battery drains,\n"

const policiesCSV = "policy_type,description,conditions,timeframe\n" +
	"returns,Laptop Return Policy,Original packaging|Receipt required,30\n"

const eventsCSV = "user_id,product_id,event_type,date\n" +
	"U001,LAP1001,purchase,2025-04-02\n" +
	"U001,PHN2001,,\n" +
	"U999,LAP1001,view,2025-04-02\n"

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

type flushCounter struct{ n int }

func (f *flushCounter) Flush(ctx context.Context) error {
	f.n++
	return nil
}

func newTestSeeder(t *testing.T) (*seedService, *gorm.DB, *flushCounter) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "seed_test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cache := &flushCounter{}
	svc := NewSeedService(
		postgres.NewCatalogRepository(db),
		postgres.NewProductRepository(db),
		postgres.NewUserRepository(db),
		cache,
	)
	svc.now = func() time.Time { return time.Date(2025, 5, 10, 18, 0, 0, 0, time.UTC) }
	return svc, db, cache
}

func TestLoadCatalog(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		productsFile: productsCSV,
		reviewsFile:  reviewsCSV,
		policiesFile: policiesCSV,
		eventsFile:   eventsCSV,
	})

	data, err := LoadCatalog(dir, time.Date(2025, 5, 10, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, data.Products, 2)
	assert.Equal(t, "LAP1001", data.Products[0].ID)
	assert.Equal(t, "Thin, light", data.Products[0].Description)
	assert.Equal(t, 999.99, data.Products[0].Price)
	assert.Equal(t, 1, data.Products[1].RowIndex)

	require.Len(t, data.Reviews, 2)
	require.NotNil(t, data.Reviews[0].Date)
	assert.Nil(t, data.Reviews[1].Date)

	require.Len(t, data.Policies, 1)
	assert.Equal(t, []string{"Original packaging", "Receipt required"}, []string(data.Policies[0].Conditions))

	assert.Equal(t, DefaultUsers(), data.Users)

	require.Len(t, data.Events, 2)
	assert.Equal(t, domain.EventPurchase, data.Events[0].EventType)
	assert.Equal(t, domain.EventView, data.Events[1].EventType)
	assert.Equal(t, "2025-05-10", data.Events[1].CreatedAt.Format("2006-01-02"))
}

func TestLoadCatalogMissingRequiredFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{productsFile: productsCSV, reviewsFile: reviewsCSV})

	_, err := LoadCatalog(dir, time.Now())
	assert.ErrorContains(t, err, policiesFile)
}

func TestLoadUsersFromFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		usersFile: "id,name,preferred_categories,budget_min,budget_max\nU010,Robin,speaker|smart_tv,,500\n",
	})

	users, err := LoadUsers(dir)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, []string{"speaker", "smart_tv"}, []string(users[0].PreferredCategories))
	assert.Nil(t, users[0].BudgetMin)
	assert.Equal(t, 500.0, *users[0].BudgetMax)
}

func TestReadCSVWindows1252(t *testing.T) {
	dir := writeFiles(t, map[string]string{"reviews.csv": "product_id,rating,text\nLAP1001,4,Caf\xe9 friendly\n"})

	rows, err := readCSV(filepath.Join(dir, "reviews.csv"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Café friendly", rows[0].str("text"))
}

func TestSeedIfNeeded(t *testing.T) {
	svc, db, cache := newTestSeeder(t)
	ctx := context.Background()
	dir := writeFiles(t, map[string]string{
		productsFile: productsCSV,
		reviewsFile:  reviewsCSV,
		policiesFile: policiesCSV,
	})

	seeded, err := svc.SeedIfNeeded(ctx, dir)
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.Equal(t, 1, cache.n)

	var products int64
	require.NoError(t, db.Model(&domain.Product{}).Count(&products).Error)
	assert.Equal(t, int64(2), products)

	seeded, err = svc.SeedIfNeeded(ctx, dir)
	require.NoError(t, err)
	assert.False(t, seeded)

	require.NoError(t, db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.UserProfile{}).Error)
	seeded, err = svc.SeedIfNeeded(ctx, dir)
	require.NoError(t, err)
	assert.True(t, seeded)

	var users int64
	require.NoError(t, db.Model(&domain.UserProfile{}).Count(&users).Error)
	assert.Equal(t, int64(3), users)
	assert.Equal(t, 1, cache.n)
}
