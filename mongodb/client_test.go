package mongodb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/gocrud/container/di"
	"github.com/gocrud/container/mongodb"
)

func newContainer(t *testing.T) *di.Container {
	t.Helper()
	cat := di.NewCatalog()
	require.NoError(t, mongodb.Describe(cat, nil))
	c := di.NewContainer(di.WithCatalog(cat))
	mongodb.SetDefaults(c)
	return c
}

func TestResolveClient(t *testing.T) {
	c := newContainer(t)
	mongodb.URI.Set(c, "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=100")

	client, err := di.Resolve[*mongo.Client](c)
	require.NoError(t, err)
	require.NotNil(t, client)

	again := di.MustResolve[*mongo.Client](c)
	assert.Same(t, client, again)

	assert.NoError(t, mongodb.Disconnect(context.Background(), client))
}

func TestInvalidURI(t *testing.T) {
	c := newContainer(t)
	mongodb.URI.Set(c, "bogus://nowhere")

	_, err := di.Resolve[*mongo.Client](c)
	assert.ErrorIs(t, err, di.ErrConstruction)
}

func TestInvalidPoolSizes(t *testing.T) {
	c := newContainer(t)
	mongodb.MinPoolSize.Set(c, 200)

	_, err := di.Resolve[*mongo.Client](c)
	assert.ErrorIs(t, err, di.ErrConstruction)

	c.SetParameter("mongodb.max_pool_size", "many")
	_, err = di.Resolve[*mongo.Client](c)
	assert.ErrorIs(t, err, di.ErrArgument)
}

func TestDefaults(t *testing.T) {
	c := newContainer(t)

	uri, err := mongodb.URI.Get(c)
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", uri)

	size, err := mongodb.MaxPoolSize.Get(c)
	require.NoError(t, err)
	assert.Equal(t, 100, size)
}
