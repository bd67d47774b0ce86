package store

import (
	"context"
	"fmt"
	"time"

	"photoshare/pkg/models"
)

// Fixtures is the sample data set the gateway can seed at startup.
type Fixtures struct {
	Users  []models.User
	Photos []models.Photo
	Tags   []models.Tag
}

func ptr(s string) *string { return &s }

// DefaultFixtures returns the demo users, photos and tags.
func DefaultFixtures() Fixtures {
	return Fixtures{
		Users: []models.User{
			{GithubLogin: "mHattrup", Name: "Mike Hattrup"},
			{GithubLogin: "gPlake", Name: "Glen Plake"},
			{GithubLogin: "sSchmidt", Name: "Scot Schmidt"},
		},
		Photos: []models.Photo{
			{
				ID:          "1",
				Name:        "Dropping the Heart Chute",
				Description: ptr("The heart chute is one of my favorite chutes"),
				Category:    models.CategoryAction,
				PostedBy:    "gPlake",
				Created:     time.Date(1977, time.March, 28, 0, 0, 0, 0, time.UTC),
			},
			{
				ID:       "2",
				Name:     "Enjoying the sunshine",
				Category: models.CategorySelfie,
				PostedBy: "sSchmidt",
				Created:  time.Date(1985, time.January, 2, 0, 0, 0, 0, time.UTC),
			},
			{
				ID:          "3",
				Name:        "Gunbarrel 25",
				Description: ptr("25 laps on gunbarrel today"),
				Category:    models.CategoryLandscape,
				PostedBy:    "sSchmidt",
				Created:     time.Date(2018, time.April, 15, 19, 9, 57, 308*int(time.Millisecond), time.UTC),
			},
		},
		Tags: []models.Tag{
			{PhotoID: "1", UserID: "gPlake"},
			{PhotoID: "2", UserID: "sSchmidt"},
			{PhotoID: "2", UserID: "mHattrup"},
			{PhotoID: "2", UserID: "gPlake"},
		},
	}
}

// Seed loads f through s. Photos are inserted one at a time so each gets a
// storage id alongside its explicit one.
func Seed(ctx context.Context, s Store, f Fixtures) error {
	if err := s.InsertUsers(ctx, f.Users); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	for _, p := range f.Photos {
		if _, err := s.InsertPhoto(ctx, p); err != nil {
			return fmt.Errorf("seed photo %s: %w", p.ID, err)
		}
	}
	if err := s.InsertTags(ctx, f.Tags); err != nil {
		return fmt.Errorf("seed tags: %w", err)
	}
	return nil
}

// SeedIfEmpty seeds only when the users collection has no documents. It
// reports whether seeding ran.
func SeedIfEmpty(ctx context.Context, s Store, f Fixtures) (bool, error) {
	n, err := s.EstimatedUserCount(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	return true, Seed(ctx, s, f)
}
