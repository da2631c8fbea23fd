package etcd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/gocrud/container/di"
	"github.com/gocrud/container/etcd"
)

func TestParseEndpoints(t *testing.T) {
	cases := []struct {
		in   any
		want []string
	}{
		{in: "a:2379", want: []string{"a:2379"}},
		{in: "a:2379, b:2379,", want: []string{"a:2379", "b:2379"}},
		{in: []string{"a:2379"}, want: []string{"a:2379"}},
		{in: []any{"a:2379", "b:2379"}, want: []string{"a:2379", "b:2379"}},
	}
	for _, tc := range cases {
		got, err := etcd.ParseEndpoints(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	for _, bad := range []any{nil, "", " , ", []any{1}, 42} {
		_, err := etcd.ParseEndpoints(bad)
		assert.Error(t, err, "%v", bad)
	}
}

func TestSetDefaults(t *testing.T) {
	c := di.NewContainer()
	etcd.SetDefaults(c)

	endpoints, err := c.GetParameter("etcd.endpoints")
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:2379"}, endpoints)

	timeout, err := etcd.DialTimeout.Get(c)
	require.NoError(t, err)
	assert.Equal(t, "5s", timeout)

	c.SetParameter("etcd.endpoints", []any{"10.0.0.1:2379"})
	etcd.SetDefaults(c)
	endpoints, _ = c.GetParameter("etcd.endpoints")
	assert.Equal(t, []any{"10.0.0.1:2379"}, endpoints)
}

func TestDescribe(t *testing.T) {
	cat := di.NewCatalog()
	require.NoError(t, etcd.Describe(cat, nil))

	d, ok := cat.Lookup(di.TypeOf[*clientv3.Client]())
	require.True(t, ok)

	names := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		assert.Equal(t, di.ParamScalar, p.Kind)
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"etcd.endpoints", "etcd.dial_timeout", "etcd.username", "etcd.password"}, names)

	assert.Error(t, etcd.Describe(cat, nil), "describing twice fails")
}

func TestInvalidParameters(t *testing.T) {
	cat := di.NewCatalog()
	require.NoError(t, etcd.Describe(cat, nil))
	c := di.NewContainer(di.WithCatalog(cat))

	etcd.SetDefaults(c)
	c.SetParameter("etcd.endpoints", "")
	_, err := c.Get(di.TypeOf[*clientv3.Client]())
	assert.ErrorIs(t, err, di.ErrConstruction)

	c.SetParameter("etcd.endpoints", "localhost:2379")
	etcd.DialTimeout.Set(c, "-1s")
	_, err = c.Get(di.TypeOf[*clientv3.Client]())
	assert.ErrorIs(t, err, di.ErrConstruction)
}
