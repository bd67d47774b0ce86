// Package cache is the client's normalized query cache. Users are stored once
// by githubLogin and the root query keeps references to them, so patching an
// entity or the user list is visible to every later read.
package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"

	"photoshare/cli/internal/client"
)

type rootRecord struct {
	TotalUsers int      `json:"totalUsers"`
	AllUsers   []string `json:"allUsers"`
	Me         string   `json:"me,omitempty"`
}

type Cache struct {
	mu    sync.RWMutex
	users map[string]client.User
	root  *rootRecord
}

type snapshot struct {
	Users map[string]client.User `json:"users"`
	Root  *rootRecord            `json:"root,omitempty"`
}

func New() *Cache {
	return &Cache{users: make(map[string]client.User)}
}

// Load reads a cache written by Save. A missing file yields an empty cache.
func Load(path string) (*Cache, error) {
	c := New()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	var snap snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	if snap.Users != nil {
		c.users = snap.Users
	}
	c.root = snap.Root
	return c, nil
}

func (c *Cache) Save(path string) error {
	c.mu.RLock()
	b, err := json.MarshalIndent(snapshot{Users: c.users, Root: c.root}, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// WriteRoot replaces the cached root query result.
func (c *Cache) WriteRoot(data client.RootData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	root := &rootRecord{TotalUsers: data.TotalUsers, AllUsers: make([]string, 0, len(data.AllUsers))}
	for _, u := range data.AllUsers {
		root.AllUsers = append(root.AllUsers, c.putUser(u))
	}
	if data.Me != nil {
		root.Me = c.putUser(*data.Me)
	}
	c.root = root
}

// ReadRoot rebuilds the root query result from the cache. ok is false when no
// root query has been written.
func (c *Cache) ReadRoot() (data client.RootData, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.root == nil {
		return client.RootData{}, false
	}
	data.TotalUsers = c.root.TotalUsers
	data.AllUsers = make([]client.User, 0, len(c.root.AllUsers))
	for _, login := range c.root.AllUsers {
		if u, found := c.users[login]; found {
			data.AllUsers = append(data.AllUsers, u)
		}
	}
	if c.root.Me != "" {
		if u, found := c.users[c.root.Me]; found {
			data.Me = &u
		}
	}
	return data, true
}

// MergeUsers applies an addFakeUsers result to the cached root query:
// totalUsers grows by len(users) and the users are appended to allUsers.
// It reports false, changing nothing, when no root query is cached.
func (c *Cache) MergeUsers(users []client.User) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return false
	}
	c.root.TotalUsers += len(users)
	for _, u := range users {
		c.root.AllUsers = append(c.root.AllUsers, c.putUser(u))
	}
	return true
}

// User returns the cached entity for login.
func (c *Cache) User(login string) (client.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.users[login]
	return u, ok
}

// ResetSession drops the cached viewer after the session token changes.
func (c *Cache) ResetSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.root != nil {
		c.root.Me = ""
	}
}

// putUser merges u into the entity store and returns its key. Empty fields
// never overwrite cached values. Callers hold mu.
func (c *Cache) putUser(u client.User) string {
	cur := c.users[u.GithubLogin]
	cur.GithubLogin = u.GithubLogin
	if u.Name != "" {
		cur.Name = u.Name
	}
	if u.Avatar != "" {
		cur.Avatar = u.Avatar
	}
	c.users[u.GithubLogin] = cur
	return u.GithubLogin
}
