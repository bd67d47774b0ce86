package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	gwerrors "photoshare/api_gateway/internal/errors"
	"photoshare/api_gateway/internal/loaders"
	"photoshare/api_gateway/internal/middleware"
	"photoshare/api_gateway/internal/resolvers"
	"photoshare/api_gateway/internal/store"
	"photoshare/pkg/models"
)

type stubGitHub struct {
	user models.User
	err  error
}

func (s stubGitHub) Authorize(context.Context, string) (models.User, error) { return s.user, s.err }

type stubIdentities struct{ calls int }

func (s *stubIdentities) Generate(_ context.Context, count int) ([]models.User, error) {
	s.calls++
	out := make([]models.User, count)
	for i := range out {
		out[i] = models.User{
			GithubLogin: fmt.Sprintf("fake%d", i),
			Name:        fmt.Sprintf("Fake %d", i),
			Avatar:      fmt.Sprintf("https://img.example/%d.jpg", i),
			GithubToken: fmt.Sprintf("sha%d", i),
		}
	}
	return out, nil
}

type harness struct {
	schema *graphql.Schema
	store  *store.MemoryStore
	ids    *stubIdentities
	res    *resolvers.Resolver
}

func newHarness(t *testing.T, seed bool) *harness {
	t.Helper()
	s := store.NewMemoryStore()
	if seed {
		require.NoError(t, store.Seed(context.Background(), s, store.DefaultFixtures()))
	}
	ids := &stubIdentities{}
	logger, _ := logrustest.NewNullLogger()
	res := resolvers.NewResolver(s, stubGitHub{}, ids, logger, nil)
	res.Now = func() time.Time { return time.Date(2024, 2, 3, 4, 5, 6, 789_000_000, time.UTC) }

	schema, err := NewSchema(NewResolver(res), Options{MaxParallelism: 4, Logger: logger})
	require.NoError(t, err)
	return &harness{schema: schema, store: s, ids: ids, res: res}
}

func (h *harness) ctx(user *models.User) context.Context {
	ctx := loaders.WithLoaders(context.Background(), h.store)
	if user != nil {
		ctx = middleware.WithCurrentUser(ctx, user)
	}
	return ctx
}

func (h *harness) exec(t *testing.T, ctx context.Context, query string, vars map[string]interface{}, out interface{}) *graphql.Response {
	t.Helper()
	resp := h.schema.Exec(ctx, query, "", vars)
	if out != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return resp
}

func TestNewSchema(t *testing.T) {
	logger, _ := logrustest.NewNullLogger()
	res := resolvers.NewResolver(store.NewMemoryStore(), stubGitHub{}, &stubIdentities{}, logger, nil)
	schema, err := NewSchema(NewResolver(res), Options{Logger: logger})
	require.NoError(t, err)
	require.NotNil(t, schema)
}

func TestPostPhotoExplicitCategory(t *testing.T) {
	h := newHarness(t, true)
	ctx := h.ctx(&models.User{GithubLogin: "gPlake"})

	var data struct {
		PostPhoto struct{ Category string }
	}
	resp := h.exec(t, ctx, `mutation { postPhoto(input: { name: "Ridge", category: LANDSCAPE }) { category } }`, nil, &data)
	require.Empty(t, resp.Errors)
	require.Equal(t, "LANDSCAPE", data.PostPhoto.Category)
}

func TestSeededPhotoQuery(t *testing.T) {
	h := newHarness(t, true)

	var data struct {
		TotalPhotos int
		AllPhotos   []struct {
			ID          string
			URL         string
			Name        string
			Description *string
			Category    string
			Created     string
			PostedBy    *struct{ GithubLogin string }
			TaggedUsers []struct{ GithubLogin string }
		}
	}
	resp := h.exec(t, h.ctx(nil), `{
		totalPhotos
		allPhotos { id url name description category created postedBy { githubLogin } taggedUsers { githubLogin } }
	}`, nil, &data)
	require.Empty(t, resp.Errors)

	require.Equal(t, 3, data.TotalPhotos)
	require.Len(t, data.AllPhotos, 3)

	p1 := data.AllPhotos[0]
	require.Equal(t, "1", p1.ID)
	require.Equal(t, "/img/photos/1.jpg", p1.URL)
	require.Equal(t, "ACTION", p1.Category)
	require.Equal(t, "1977-03-28T00:00:00.000Z", p1.Created)
	require.Equal(t, "gPlake", p1.PostedBy.GithubLogin)

	p2 := data.AllPhotos[1]
	require.Nil(t, p2.Description)
	var tagged []string
	for _, u := range p2.TaggedUsers {
		tagged = append(tagged, u.GithubLogin)
	}
	require.Equal(t, []string{"sSchmidt", "mHattrup", "gPlake"}, tagged)

	require.Equal(t, "2018-04-15T19:09:57.308Z", data.AllPhotos[2].Created)
}

func TestTaggedUsersInsertionOrder(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	require.NoError(t, h.store.InsertUsers(ctx, []models.User{{GithubLogin: "sSchmidt"}, {GithubLogin: "gPlake"}}))
	_, err := h.store.InsertPhoto(ctx, models.Photo{ID: "p", Name: "Tagged", Category: models.CategoryAction, PostedBy: "sSchmidt"})
	require.NoError(t, err)
	require.NoError(t, h.store.InsertTags(ctx, []models.Tag{{PhotoID: "p", UserID: "gPlake"}, {PhotoID: "p", UserID: "sSchmidt"}}))

	var data struct {
		AllPhotos []struct{ TaggedUsers []struct{ GithubLogin string } }
	}
	resp := h.exec(t, h.ctx(nil), `{ allPhotos { taggedUsers { githubLogin } } }`, nil, &data)
	require.Empty(t, resp.Errors)
	require.Len(t, data.AllPhotos[0].TaggedUsers, 2)
	require.Equal(t, "gPlake", data.AllPhotos[0].TaggedUsers[0].GithubLogin)
	require.Equal(t, "sSchmidt", data.AllPhotos[0].TaggedUsers[1].GithubLogin)
}

func TestDanglingReferencesDoNotFailQuery(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	require.NoError(t, h.store.InsertUsers(ctx, []models.User{{GithubLogin: "sSchmidt"}}))
	_, err := h.store.InsertPhoto(ctx, models.Photo{ID: "orphan", Name: "Orphan", Category: models.CategoryGraphic, PostedBy: "gone"})
	require.NoError(t, err)
	_, err = h.store.InsertPhoto(ctx, models.Photo{ID: "ok", Name: "Fine", Category: models.CategoryGraphic, PostedBy: "sSchmidt"})
	require.NoError(t, err)
	require.NoError(t, h.store.InsertTags(ctx, []models.Tag{{PhotoID: "ok", UserID: "gPlake"}, {PhotoID: "ok", UserID: "sSchmidt"}}))

	var data struct {
		AllPhotos []struct {
			ID          string
			PostedBy    *struct{ GithubLogin string }
			TaggedUsers []struct{ GithubLogin string }
		}
	}
	resp := h.exec(t, h.ctx(nil), `{ allPhotos { id postedBy { githubLogin } taggedUsers { githubLogin } } }`, nil, &data)
	require.Empty(t, resp.Errors)
	require.Len(t, data.AllPhotos, 2)
	require.Nil(t, data.AllPhotos[0].PostedBy, "dangling poster resolves to null")
	require.Equal(t, "sSchmidt", data.AllPhotos[1].PostedBy.GithubLogin)
	require.Len(t, data.AllPhotos[1].TaggedUsers, 1, "dangling tag target is dropped")
}

func TestAddFakeUsersThenTotal(t *testing.T) {
	h := newHarness(t, true)

	var added struct {
		AddFakeUsers []struct {
			GithubLogin string
			Name        string
			Avatar      string
		}
	}
	resp := h.exec(t, h.ctx(nil), `mutation { addFakeUsers(count: 3) { githubLogin name avatar } }`, nil, &added)
	require.Empty(t, resp.Errors)
	require.Len(t, added.AddFakeUsers, 3)
	for _, u := range added.AddFakeUsers {
		require.NotEmpty(t, u.GithubLogin)
		require.NotEmpty(t, u.Name)
		require.NotEmpty(t, u.Avatar)
	}

	var total struct{ TotalUsers int }
	resp = h.exec(t, h.ctx(nil), `{ totalUsers }`, nil, &total)
	require.Empty(t, resp.Errors)
	require.Equal(t, 6, total.TotalUsers)
}

func TestAddFakeUsersDefaultsToOne(t *testing.T) {
	h := newHarness(t, false)
	var added struct{ AddFakeUsers []struct{ GithubLogin string } }
	resp := h.exec(t, h.ctx(nil), `mutation { addFakeUsers { githubLogin } }`, nil, &added)
	require.Empty(t, resp.Errors)
	require.Len(t, added.AddFakeUsers, 1)
}

func TestAddFakeUsersRejectsZero(t *testing.T) {
	h := newHarness(t, false)
	resp := h.exec(t, h.ctx(nil), `mutation { addFakeUsers(count: 0) { githubLogin } }`, nil, nil)
	require.Len(t, resp.Errors, 1)
	require.Equal(t, gwerrors.CodeBadUserInput, resp.Errors[0].Extensions["code"])
	require.Zero(t, h.ids.calls)
}

func TestPostPhotoUnauthorized(t *testing.T) {
	h := newHarness(t, true)

	resp := h.exec(t, h.ctx(nil), `mutation { postPhoto(input: { name: "x" }) { id } }`, nil, nil)
	require.Len(t, resp.Errors, 1)
	require.Equal(t, "only an authorized user can post a photo", resp.Errors[0].Message)
	require.Equal(t, gwerrors.CodeUnauthorized, resp.Errors[0].Extensions["code"])

	n, _ := h.store.EstimatedPhotoCount(context.Background())
	require.EqualValues(t, 3, n)
}

func TestPostPhotoStampsPosterAndClock(t *testing.T) {
	h := newHarness(t, true)
	ctx := h.ctx(&models.User{GithubLogin: "mHattrup", Name: "Mike Hattrup"})

	var data struct {
		PostPhoto struct {
			ID       string
			URL      string
			Category string
			Created  string
			PostedBy struct{ GithubLogin string }
		}
	}
	resp := h.exec(t, ctx, `mutation Post($input: PostPhotoInput!) {
		postPhoto(input: $input) { id url category created postedBy { githubLogin } }
	}`, map[string]interface{}{"input": map[string]interface{}{"name": "Corbet's", "description": "steep"}}, &data)
	require.Empty(t, resp.Errors)

	require.NotEmpty(t, data.PostPhoto.ID)
	require.Equal(t, "/img/photos/"+data.PostPhoto.ID+".jpg", data.PostPhoto.URL)
	require.Equal(t, "PORTRAIT", data.PostPhoto.Category)
	require.Equal(t, "2024-02-03T04:05:06.789Z", data.PostPhoto.Created)
	require.Equal(t, "mHattrup", data.PostPhoto.PostedBy.GithubLogin)
}

func TestPostPhotoInputCannotCarryServerFields(t *testing.T) {
	h := newHarness(t, true)
	ctx := h.ctx(&models.User{GithubLogin: "mHattrup"})

	resp := h.exec(t, ctx, `mutation { postPhoto(input: { name: "x", postedBy: "gPlake" }) { id } }`, nil, nil)
	require.NotEmpty(t, resp.Errors, "unknown input fields are rejected by validation")

	n, _ := h.store.EstimatedPhotoCount(context.Background())
	require.EqualValues(t, 3, n)
}

func TestFakeUserAuthNotFound(t *testing.T) {
	h := newHarness(t, true)

	resp := h.exec(t, h.ctx(nil), `mutation { fakeUserAuth(githubLogin: "nobody") { token } }`, nil, nil)
	require.Len(t, resp.Errors, 1)
	require.Equal(t, gwerrors.CodeNotFound, resp.Errors[0].Extensions["code"])
}

func TestGithubAuthReturnsPayload(t *testing.T) {
	h := newHarness(t, true)
	h.res.GitHub = stubGitHub{user: models.User{GithubLogin: "octocat", Name: "Octo", GithubToken: "gho_1"}}

	var data struct {
		GithubAuth struct {
			Token string
			User  struct{ GithubLogin string }
		}
	}
	resp := h.exec(t, h.ctx(nil), `mutation { githubAuth(code: "c") { token user { githubLogin } } }`, nil, &data)
	require.Empty(t, resp.Errors)
	require.Equal(t, "gho_1", data.GithubAuth.Token)
	require.Equal(t, "octocat", data.GithubAuth.User.GithubLogin)
}

func TestGithubAuthUpstreamError(t *testing.T) {
	h := newHarness(t, true)
	h.res.GitHub = stubGitHub{err: &gwerrors.UpstreamError{Service: "github", Message: "The code passed is incorrect or expired."}}

	resp := h.exec(t, h.ctx(nil), `mutation { githubAuth(code: "bad") { token } }`, nil, nil)
	require.Len(t, resp.Errors, 1)
	require.Equal(t, "The code passed is incorrect or expired.", resp.Errors[0].Message)
	require.Equal(t, gwerrors.CodeUpstream, resp.Errors[0].Extensions["code"])
}

func TestMeAndUserFields(t *testing.T) {
	h := newHarness(t, true)

	var anon struct{ Me *struct{ GithubLogin string } }
	resp := h.exec(t, h.ctx(nil), `{ me { githubLogin } }`, nil, &anon)
	require.Empty(t, resp.Errors)
	require.Nil(t, anon.Me)

	var data struct {
		Me struct {
			GithubLogin  string
			Name         string
			PostedPhotos []struct{ ID string }
			InPhotos     []struct{ ID string }
		}
	}
	resp = h.exec(t, h.ctx(&models.User{GithubLogin: "gPlake", Name: "Glen Plake"}),
		`{ me { githubLogin name postedPhotos { id } inPhotos { id } } }`, nil, &data)
	require.Empty(t, resp.Errors)
	require.Equal(t, "Glen Plake", data.Me.Name)
	require.Len(t, data.Me.PostedPhotos, 1)
	require.Len(t, data.Me.InPhotos, 2)
}

func TestGithubTokenIsNotInSchema(t *testing.T) {
	h := newHarness(t, true)
	resp := h.exec(t, h.ctx(nil), `{ allUsers { githubToken } }`, nil, nil)
	require.NotEmpty(t, resp.Errors)
}

func TestAllPhotosAfterLiteralAndVariable(t *testing.T) {
	h := newHarness(t, true)

	var lit struct{ AllPhotos []struct{ ID string } }
	resp := h.exec(t, h.ctx(nil), `{ allPhotos(after: "1985-01-02") { id } }`, nil, &lit)
	require.Empty(t, resp.Errors)
	require.Len(t, lit.AllPhotos, 1)
	require.Equal(t, "3", lit.AllPhotos[0].ID)

	var byVar struct{ AllPhotos []struct{ ID string } }
	resp = h.exec(t, h.ctx(nil), `query($after: DateTime) { allPhotos(after: $after) { id } }`,
		map[string]interface{}{"after": float64(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())}, &byVar)
	require.Empty(t, resp.Errors)
	require.Len(t, byVar.AllPhotos, 2)
}
