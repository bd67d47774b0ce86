package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PhotoCategory mirrors the GraphQL PhotoCategory enum.
type PhotoCategory string

const (
	CategorySelfie    PhotoCategory = "SELFIE"
	CategoryPortrait  PhotoCategory = "PORTRAIT"
	CategoryAction    PhotoCategory = "ACTION"
	CategoryLandscape PhotoCategory = "LANDSCAPE"
	CategoryGraphic   PhotoCategory = "GRAPHIC"
)

// DefaultCategory is applied when a photo is posted without a category.
const DefaultCategory = CategoryPortrait

// Valid reports whether c is one of the declared categories.
func (c PhotoCategory) Valid() bool {
	switch c {
	case CategorySelfie, CategoryPortrait, CategoryAction, CategoryLandscape, CategoryGraphic:
		return true
	}
	return false
}

// User is keyed by GithubLogin. GithubToken never leaves the server.
type User struct {
	GithubLogin string `bson:"githubLogin" json:"githubLogin"`
	Name        string `bson:"name,omitempty" json:"name,omitempty"`
	Avatar      string `bson:"avatar,omitempty" json:"avatar,omitempty"`
	GithubToken string `bson:"githubToken,omitempty" json:"-"`
}

// Photo is a posted photo. Seeded photos carry an explicit ID; photos created
// through postPhoto are identified by the generated ObjectID.
type Photo struct {
	ObjectID    bson.ObjectID `bson:"_id,omitempty" json:"-"`
	ID          string        `bson:"id,omitempty" json:"id,omitempty"`
	Name        string        `bson:"name" json:"name"`
	Description *string       `bson:"description,omitempty" json:"description,omitempty"`
	Category    PhotoCategory `bson:"category" json:"category"`
	PostedBy    string        `bson:"userID" json:"postedBy"`
	Created     time.Time     `bson:"created" json:"created"`
}

// ResolvedID returns the explicit id, falling back to the hex ObjectID.
func (p Photo) ResolvedID() string {
	if p.ID != "" {
		return p.ID
	}
	if p.ObjectID.IsZero() {
		return ""
	}
	return p.ObjectID.Hex()
}

// URL is derived from the resolved id only.
func (p Photo) URL() string {
	return PhotoURL(p.ResolvedID())
}

// PhotoURL builds the public image path for a photo id.
func PhotoURL(id string) string {
	return "/img/photos/" + id + ".jpg"
}

// Tag links a photo to a user tagged in it.
type Tag struct {
	PhotoID string `bson:"photoID" json:"photoID"`
	UserID  string `bson:"userID" json:"userID"`
}

// AuthPayload is returned by the sign-in mutations.
type AuthPayload struct {
	Token string
	User  User
}
