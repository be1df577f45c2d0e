package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"yamdb/internal/models"
	"yamdb/internal/session"
	"yamdb/internal/store"
)

// In-memory stand-ins for the PostgreSQL stores and Valkey caches. They
// mirror the store contracts: Find* returns nil for missing rows, writes
// on missing rows return store.ErrNotFound and constraint violations
// return *store.ConstraintError.

type fakeUsers struct {
	byID   map[int64]*models.User
	nextID int64
	err    error
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: map[int64]*models.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
		f.nextID = max(f.nextID, u.ID)
	}
	return f
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	return f.byID[id], f.err
}

func (f *fakeUsers) Create(_ context.Context, username, email, password string, role models.Role) (*models.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			return nil, fmt.Errorf("create user: %w", &store.ConstraintError{Kind: store.ErrDuplicate, Constraint: store.UsernameConstraint})
		}
		if u.Email == email {
			return nil, fmt.Errorf("create user: %w", &store.ConstraintError{Kind: store.ErrDuplicate, Constraint: store.EmailConstraint})
		}
	}
	f.nextID++
	u := &models.User{ID: f.nextID, Username: username, Email: email, PasswordHash: password, Role: role}
	f.byID[u.ID] = u
	return u, nil
}

// CheckPassword compares in plain text; the fake stores passwords unhashed.
func (f *fakeUsers) CheckPassword(user *models.User, password string) bool {
	return user.PasswordHash == password
}

type fakeSessions struct {
	tokens map[string]*session.Data
	n      int
}

func (f *fakeSessions) Create(_ context.Context, data *session.Data) (string, error) {
	if f.tokens == nil {
		f.tokens = map[string]*session.Data{}
	}
	f.n++
	token := fmt.Sprintf("token-%d", f.n)
	f.tokens[token] = data
	return token, nil
}

func (f *fakeSessions) Destroy(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

type fakeCategories struct {
	items  []models.Category
	nextID int64
}

func (f *fakeCategories) List(context.Context) ([]models.Category, error) {
	return slices.Clone(f.items), nil
}

func (f *fakeCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range f.items {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	for _, existing := range f.items {
		if existing.Slug == c.Slug {
			return nil, &store.ConstraintError{Kind: store.ErrDuplicate, Constraint: "categories_slug_key"}
		}
	}
	f.nextID++
	created := models.Category{ID: f.nextID, Name: c.Name, Slug: c.Slug}
	f.items = append(f.items, created)
	return &created, nil
}

func (f *fakeCategories) DeleteBySlug(_ context.Context, slug string) error {
	for i, c := range f.items {
		if c.Slug == slug {
			f.items = slices.Delete(f.items, i, i+1)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeGenres struct {
	items  []models.Genre
	nextID int64
}

func (f *fakeGenres) List(context.Context) ([]models.Genre, error) {
	return slices.Clone(f.items), nil
}

func (f *fakeGenres) FindBySlugs(_ context.Context, slugs []string) ([]models.Genre, error) {
	out := []models.Genre{}
	for _, g := range f.items {
		if slices.Contains(slugs, g.Slug) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGenres) Create(_ context.Context, g *models.Genre) (*models.Genre, error) {
	for _, existing := range f.items {
		if existing.Slug == g.Slug {
			return nil, &store.ConstraintError{Kind: store.ErrDuplicate, Constraint: "genres_slug_key"}
		}
	}
	f.nextID++
	created := models.Genre{ID: f.nextID, Name: g.Name, Slug: g.Slug}
	f.items = append(f.items, created)
	return &created, nil
}

func (f *fakeGenres) DeleteBySlug(_ context.Context, slug string) error {
	for i, g := range f.items {
		if g.Slug == slug {
			f.items = slices.Delete(f.items, i, i+1)
			return nil
		}
	}
	return store.ErrNotFound
}

// fakeTitles computes ratings from the fake review store, like the
// aggregate subquery of the real one.
type fakeTitles struct {
	byID    map[int64]models.Title
	nextID  int64
	reviews *fakeReviews
	finds   int
}

func (f *fakeTitles) withRating(t models.Title) models.Title {
	if f.reviews == nil {
		return t
	}
	var sum, n int
	for _, r := range f.reviews.items {
		if r.TitleID == t.ID {
			sum += r.Score
			n++
		}
	}
	t.Rating = nil
	if n > 0 {
		rating := int(math.Round(float64(sum) / float64(n)))
		t.Rating = &rating
	}
	return t
}

func (f *fakeTitles) List(context.Context) ([]models.Title, error) {
	out := []models.Title{}
	for id := int64(1); id <= f.nextID; id++ {
		if t, ok := f.byID[id]; ok {
			out = append(out, f.withRating(t))
		}
	}
	return out, nil
}

func (f *fakeTitles) FindByID(_ context.Context, id int64) (*models.Title, error) {
	f.finds++
	t, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	t = f.withRating(t)
	return &t, nil
}

func (f *fakeTitles) Create(_ context.Context, t *models.Title, genreIDs []int64) (*models.Title, error) {
	f.nextID++
	created := *t
	created.ID = f.nextID
	if created.Genres == nil {
		created.Genres = []models.Genre{}
	}
	f.byID[created.ID] = created
	return &created, nil
}

func (f *fakeTitles) Update(_ context.Context, t *models.Title, genreIDs []int64) error {
	if _, ok := f.byID[t.ID]; !ok {
		return store.ErrNotFound
	}
	f.byID[t.ID] = *t
	return nil
}

func (f *fakeTitles) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeReviews struct {
	items     []models.Review
	nextID    int64
	usernames map[int64]string
	// blindCheck makes ExistsForAuthor always answer false, as when two
	// requests race past the pre-check.
	blindCheck bool
}

func (f *fakeReviews) ListByTitle(_ context.Context, titleID int64) ([]models.Review, error) {
	out := []models.Review{}
	for _, r := range f.items {
		if r.TitleID == titleID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviews) FindByID(_ context.Context, titleID, reviewID int64) (*models.Review, error) {
	for _, r := range f.items {
		if r.ID == reviewID && r.TitleID == titleID {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeReviews) ExistsForAuthor(_ context.Context, authorID, titleID int64) (bool, error) {
	if f.blindCheck {
		return false, nil
	}
	for _, r := range f.items {
		if r.AuthorID == authorID && r.TitleID == titleID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviews) Create(_ context.Context, r *models.Review) (*models.Review, error) {
	for _, existing := range f.items {
		if existing.AuthorID == r.AuthorID && existing.TitleID == r.TitleID {
			return nil, fmt.Errorf("create review: %w",
				&store.ConstraintError{Kind: store.ErrDuplicate, Constraint: store.UniqueReviewConstraint})
		}
	}
	f.nextID++
	created := *r
	created.ID = f.nextID
	created.Author = f.usernames[r.AuthorID]
	created.PubDate = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.items = append(f.items, created)
	return &created, nil
}

func (f *fakeReviews) Update(_ context.Context, r *models.Review) error {
	for i, existing := range f.items {
		if existing.ID == r.ID && existing.TitleID == r.TitleID {
			f.items[i] = *r
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeReviews) Delete(_ context.Context, titleID, reviewID int64) error {
	for i, r := range f.items {
		if r.ID == reviewID && r.TitleID == titleID {
			f.items = slices.Delete(f.items, i, i+1)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeComments struct {
	items     []models.Comment
	nextID    int64
	usernames map[int64]string
}

func (f *fakeComments) ListByReview(_ context.Context, reviewID int64) ([]models.Comment, error) {
	out := []models.Comment{}
	for _, c := range f.items {
		if c.ReviewID == reviewID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeComments) FindByID(_ context.Context, reviewID, commentID int64) (*models.Comment, error) {
	for _, c := range f.items {
		if c.ID == commentID && c.ReviewID == reviewID {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeComments) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	f.nextID++
	created := *c
	created.ID = f.nextID
	created.Author = f.usernames[c.AuthorID]
	f.items = append(f.items, created)
	return &created, nil
}

func (f *fakeComments) Update(_ context.Context, c *models.Comment) error {
	for i, existing := range f.items {
		if existing.ID == c.ID && existing.ReviewID == c.ReviewID {
			f.items[i] = *c
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeComments) Delete(_ context.Context, reviewID, commentID int64) error {
	for i, c := range f.items {
		if c.ID == commentID && c.ReviewID == reviewID {
			f.items = slices.Delete(f.items, i, i+1)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeCache struct {
	bodies       map[int64][]byte
	invalidated  []int64
	clearedTimes int
}

func (f *fakeCache) Get(_ context.Context, id int64) ([]byte, bool) {
	b, ok := f.bodies[id]
	return b, ok
}

func (f *fakeCache) Set(_ context.Context, id int64, body []byte) {
	if f.bodies == nil {
		f.bodies = map[int64][]byte{}
	}
	f.bodies[id] = body
}

func (f *fakeCache) Invalidate(_ context.Context, id int64) {
	f.invalidated = append(f.invalidated, id)
	delete(f.bodies, id)
}

func (f *fakeCache) InvalidateAll(context.Context) {
	f.clearedTimes++
	f.bodies = nil
}

var errBoom = errors.New("boom")
