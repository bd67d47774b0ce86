package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"photoshare/cli/internal/client"
)

func seeded() *Cache {
	c := New()
	c.WriteRoot(client.RootData{
		TotalUsers: 3,
		AllUsers: []client.User{
			{GithubLogin: "mHattrup", Name: "Mike Hattrup"},
			{GithubLogin: "gPlake", Name: "Glen Plake"},
			{GithubLogin: "sSchmidt", Name: "Scot Schmidt"},
		},
	})
	return c
}

func TestReadRootMiss(t *testing.T) {
	_, ok := New().ReadRoot()
	require.False(t, ok)
	require.False(t, New().MergeUsers([]client.User{{GithubLogin: "x"}}))
}

func TestMergeUsersPatchesRoot(t *testing.T) {
	c := seeded()

	ok := c.MergeUsers([]client.User{{GithubLogin: "fake1", Name: "Fake One", Avatar: "http://a/1.jpg"}})
	require.True(t, ok)

	data, ok := c.ReadRoot()
	require.True(t, ok)
	require.Equal(t, 4, data.TotalUsers)
	require.Len(t, data.AllUsers, 4)
	require.Equal(t, "fake1", data.AllUsers[3].GithubLogin)
	require.Equal(t, "http://a/1.jpg", data.AllUsers[3].Avatar)
}

func TestEntitiesAreShared(t *testing.T) {
	c := New()
	c.WriteRoot(client.RootData{
		TotalUsers: 1,
		AllUsers:   []client.User{{GithubLogin: "gPlake", Name: "Glen Plake"}},
		Me:         &client.User{GithubLogin: "gPlake", Avatar: "http://a/g.jpg"},
	})

	data, _ := c.ReadRoot()
	require.Equal(t, "Glen Plake", data.Me.Name, "partial write must not erase cached fields")
	require.Equal(t, "http://a/g.jpg", data.AllUsers[0].Avatar, "one entity backs both references")
}

func TestResetSession(t *testing.T) {
	c := New()
	c.WriteRoot(client.RootData{Me: &client.User{GithubLogin: "gPlake"}})
	c.ResetSession()
	data, _ := c.ReadRoot()
	require.Nil(t, data.Me)
	_, ok := c.User("gPlake")
	require.True(t, ok)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	missing, err := Load(path)
	require.NoError(t, err)
	_, ok := missing.ReadRoot()
	require.False(t, ok)

	c := seeded()
	require.NoError(t, c.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	data, ok := loaded.ReadRoot()
	require.True(t, ok)
	require.Equal(t, 3, data.TotalUsers)
	require.Equal(t, "gPlake", data.AllUsers[1].GithubLogin)
}
