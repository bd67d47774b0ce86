package client

import (
	"context"
	"time"
)

type User struct {
	GithubLogin string `json:"githubLogin"`
	Name        string `json:"name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

type PhotoRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Photo struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Category    string  `json:"category"`
	Created     string  `json:"created"`
	PostedBy    *User   `json:"postedBy"`
	TaggedUsers []User  `json:"taggedUsers,omitempty"`
}

type Profile struct {
	User
	PostedPhotos []PhotoRef `json:"postedPhotos"`
	InPhotos     []PhotoRef `json:"inPhotos"`
}

// RootData is the result of RootQuery.
type RootData struct {
	TotalUsers int    `json:"totalUsers"`
	AllUsers   []User `json:"allUsers"`
	Me         *User  `json:"me"`
}

type PhotosData struct {
	TotalPhotos int     `json:"totalPhotos"`
	AllPhotos   []Photo `json:"allPhotos"`
}

type AuthPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type PostPhotoInput struct {
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

func (c *Client) RootQuery(ctx context.Context) (*RootData, error) {
	var out RootData
	err := c.Do(ctx, "RootQuery", nil, &out)
	return &out, err
}

// AllPhotos lists photos; a zero after lists everything.
func (c *Client) AllPhotos(ctx context.Context, after time.Time) (*PhotosData, error) {
	var vars map[string]interface{}
	if !after.IsZero() {
		vars = map[string]interface{}{"after": after.UTC().Format("2006-01-02T15:04:05.000Z")}
	}
	var out PhotosData
	err := c.Do(ctx, "AllPhotos", vars, &out)
	return &out, err
}

// Me returns nil for an anonymous session.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var out struct {
		Me *Profile `json:"me"`
	}
	err := c.Do(ctx, "Me", nil, &out)
	return out.Me, err
}

func (c *Client) AddFakeUsers(ctx context.Context, count int) ([]User, error) {
	var out struct {
		AddFakeUsers []User `json:"addFakeUsers"`
	}
	err := c.Do(ctx, "AddFakeUsers", map[string]interface{}{"count": count}, &out)
	return out.AddFakeUsers, err
}

func (c *Client) PostPhoto(ctx context.Context, input PostPhotoInput) (*Photo, error) {
	var out struct {
		PostPhoto *Photo `json:"postPhoto"`
	}
	err := c.Do(ctx, "PostPhoto", map[string]interface{}{"input": input}, &out)
	return out.PostPhoto, err
}

func (c *Client) GithubAuth(ctx context.Context, code string) (*AuthPayload, error) {
	var out struct {
		GithubAuth *AuthPayload `json:"githubAuth"`
	}
	err := c.Do(ctx, "GithubAuth", map[string]interface{}{"code": code}, &out)
	return out.GithubAuth, err
}

func (c *Client) FakeUserAuth(ctx context.Context, login string) (*AuthPayload, error) {
	var out struct {
		FakeUserAuth *AuthPayload `json:"fakeUserAuth"`
	}
	err := c.Do(ctx, "FakeUserAuth", map[string]interface{}{"githubLogin": login}, &out)
	return out.FakeUserAuth, err
}
