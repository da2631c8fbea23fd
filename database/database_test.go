package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gocrud/container/config"
	"github.com/gocrud/container/database"
	"github.com/gocrud/container/di"
)

type User struct {
	gorm.Model
	Name string
}

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func newContainer(t *testing.T) *di.Container {
	t.Helper()
	cat := di.NewCatalog()
	require.NoError(t, database.Describe(cat, nil))
	di.MustProvide(cat, NewUserRepository)
	return di.NewContainer(di.WithCatalog(cat))
}

func TestDatabaseFromConfiguration(t *testing.T) {
	cfg, err := config.NewConfigurationBuilder().
		AddInMemory(map[string]any{
			"database": map[string]any{
				"dsn":            "file::memory:?cache=shared",
				"max_open_conns": 5,
				"max_idle_conns": 2,
			},
		}).
		Build()
	require.NoError(t, err)

	c := newContainer(t)
	require.NoError(t, config.Apply(c, cfg, "database"))
	database.SetDefaults(c)
	database.UseSQLite(c)

	require.NoError(t, database.Migrate(c, &User{}))

	repo, err := di.Resolve[*UserRepository](c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(repo.DB) })

	require.NoError(t, repo.DB.Create(&User{Name: "alice"}).Error)

	var found User
	require.NoError(t, repo.DB.First(&found, "name = ?", "alice").Error)
	assert.Equal(t, "alice", found.Name)

	sqlDB, err := repo.DB.DB()
	require.NoError(t, err)
	assert.Equal(t, 5, sqlDB.Stats().MaxOpenConnections)

	// 同一个 *gorm.DB 被共享
	assert.Same(t, repo.DB, di.MustResolve[*gorm.DB](c))
}

func TestDialectorNotBound(t *testing.T) {
	c := newContainer(t)
	database.DSN.Set(c, "file::memory:")
	database.SetDefaults(c)

	_, err := di.Resolve[*gorm.DB](c)
	assert.ErrorIs(t, err, di.ErrUndefinedImplementation)
}

func TestMissingDSN(t *testing.T) {
	c := newContainer(t)
	database.SetDefaults(c)
	database.UseSQLite(c)

	_, err := di.Resolve[*UserRepository](c)
	var paramErr *di.UndefinedParameterError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, "database.dsn", paramErr.Param)

	database.DSN.Set(c, "")
	_, err = di.Resolve[*UserRepository](c)
	assert.ErrorIs(t, err, di.ErrConstruction)
}

func TestInvalidPool(t *testing.T) {
	opts := database.NewDefaultOptions()
	opts.MaxIdleConns = 200
	assert.Error(t, opts.Validate())

	_, err := database.Open(nil, *database.NewDefaultOptions())
	assert.Error(t, err)
}
