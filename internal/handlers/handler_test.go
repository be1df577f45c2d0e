// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: an environment of in-memory fakes and request helpers.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"yamdb/internal/middleware"
	"yamdb/internal/models"
	"yamdb/internal/session"
)

var (
	alice = &models.User{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: "alice-secret", Role: models.RoleUser}
	bob   = &models.User{ID: 2, Username: "bob", Email: "bob@example.com", PasswordHash: "bob-secret", Role: models.RoleUser}
	mod   = &models.User{ID: 3, Username: "mod", Email: "mod@example.com", PasswordHash: "mod-secret", Role: models.RoleModerator}
	root  = &models.User{ID: 4, Username: "root", Email: "root@example.com", PasswordHash: "root-secret", Role: models.RoleAdmin}
)

// testNow is the clock of the Titles handlers under test.
var testNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

// testEnv holds the fakes and the handler groups wired to them.
type testEnv struct {
	Users      *fakeUsers
	Sessions   *fakeSessions
	Categories *fakeCategories
	Genres     *fakeGenres
	TitleRepo  *fakeTitles
	ReviewRepo *fakeReviews
	Comments   *fakeComments
	Cache      *fakeCache

	Auth    *Auth
	Catalog *Catalog
	Titles  *Titles
	Reviews *Reviews
}

// newTestEnv seeds four users (alice, bob, a moderator and an admin), two
// categories (movie, book) and two genres (drama, comedy).
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	usernames := map[int64]string{}
	for _, u := range []*models.User{alice, bob, mod, root} {
		usernames[u.ID] = u.Username
	}

	env := &testEnv{
		Users:    newFakeUsers(alice, bob, mod, root),
		Sessions: &fakeSessions{},
		Categories: &fakeCategories{
			items:  []models.Category{{ID: 1, Name: "Movie", Slug: "movie"}, {ID: 2, Name: "Book", Slug: "book"}},
			nextID: 2,
		},
		Genres: &fakeGenres{
			items:  []models.Genre{{ID: 1, Name: "Drama", Slug: "drama"}, {ID: 2, Name: "Comedy", Slug: "comedy"}},
			nextID: 2,
		},
		ReviewRepo: &fakeReviews{usernames: usernames},
		Comments:   &fakeComments{usernames: usernames},
		Cache:      &fakeCache{},
	}
	env.TitleRepo = &fakeTitles{byID: map[int64]models.Title{}, reviews: env.ReviewRepo}

	env.Auth = NewAuth(env.Users, env.Sessions)
	env.Catalog = NewCatalog(env.Categories, env.Genres, env.Cache)
	env.Titles = NewTitles(env.TitleRepo, env.Categories, env.Genres, env.Cache)
	env.Titles.now = func() time.Time { return testNow }
	env.Reviews = NewReviews(env.TitleRepo, env.ReviewRepo, env.Comments, env.Cache)
	return env
}

// addTitle stores a title directly in the fake repository.
func (env *testEnv) addTitle(name string, year int) models.Title {
	env.TitleRepo.nextID++
	t := models.Title{ID: env.TitleRepo.nextID, Name: name, Year: year, Genres: []models.Genre{}}
	env.TitleRepo.byID[t.ID] = t
	return t
}

// addReview stores a review directly in the fake repository.
func (env *testEnv) addReview(titleID int64, author *models.User, score int) models.Review {
	r, err := env.ReviewRepo.Create(context.Background(), &models.Review{
		TitleID: titleID, AuthorID: author.ID, Text: "review by " + author.Username, Score: score,
	})
	if err != nil {
		panic(err)
	}
	return *r
}

// call invokes h with an optional JSON body, an optional authenticated
// user and chi URL params given as name/value pairs.
func call(h http.HandlerFunc, method, body string, user *models.User, params ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if user != nil {
		ctx = context.WithValue(ctx, middleware.SessionKey, &session.Data{
			UserID: user.ID, Username: user.Username, Role: string(user.Role),
		})
	}

	rr := httptest.NewRecorder()
	h(rr, req.WithContext(ctx))
	return rr
}

// decodeBody unmarshals the recorded JSON response into a value of type T.
func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

// fieldErrors decodes a 400 validation body.
func fieldErrors(t *testing.T, rr *httptest.ResponseRecorder) map[string][]string {
	t.Helper()
	require.Equal(t, http.StatusBadRequest, rr.Code, "body: %s", rr.Body.String())
	return decodeBody[map[string][]string](t, rr)
}
