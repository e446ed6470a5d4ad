package articles

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ManuelReschke/AuthorsHaven/app/models"
	"github.com/ManuelReschke/AuthorsHaven/app/repository"
)

// memStore backs every repository the service needs with maps.
type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	articles map[string]models.Article
	ratings  map[string]models.Rating
	likes    map[[2]string]int
	seq      int
	failGet  error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]models.User{},
		articles: map[string]models.Article{},
		ratings:  map[string]models.Rating{},
		likes:    map[[2]string]int{},
	}
}

func (m *memStore) repositories() *repository.Repositories {
	return &repository.Repositories{
		User:    memUsers{m},
		Article: memArticles{m},
		Rating:  memRatings{m},
		Like:    memLikes{m},
	}
}

func (m *memStore) addUser(username string) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := models.User{ID: uuid.NewString(), Username: username, Email: username + "@example.com", FirstName: "F", LastName: "L"}
	m.users[u.ID] = u
	return u
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.m.users[u.ID] = *u
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r memUsers) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r memUsers) GetBySocial(context.Context, string, string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r memUsers) ExistsByEmailOrUsername(context.Context, string, string) (bool, error) {
	return false, nil
}

func (r memUsers) SetEmailVerified(context.Context, string) error { return nil }

func (r memUsers) UpdatePassword(context.Context, string, string) error { return nil }

type memArticles struct{ m *memStore }

func (r memArticles) Create(_ context.Context, a *models.Article) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	r.m.articles[a.ID] = *a
	return nil
}

func (r memArticles) GetByID(_ context.Context, id string) (*models.Article, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failGet != nil {
		return nil, r.m.failGet
	}
	a, ok := r.m.articles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r memArticles) GetByIDWithAuthor(ctx context.Context, id string) (*models.Article, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	author := r.m.users[a.UserID]
	a.Author = models.User{ID: author.ID, FirstName: author.FirstName, LastName: author.LastName, Username: author.Username}
	return a, nil
}

func (r memArticles) Exists(_ context.Context, id string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.articles[id]
	return ok, nil
}

func (r memArticles) AddViewCounts(_ context.Context, deltas map[string]int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, inc := range deltas {
		a := r.m.articles[id]
		a.ViewCount += inc
		r.m.articles[id] = a
	}
	return nil
}

type memRatings struct{ m *memStore }

func (r memRatings) FindOrCreate(_ context.Context, rt *models.Rating) (*models.Rating, bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.ratings {
		if existing.ArticleID == rt.ArticleID && existing.UserID == rt.UserID {
			e := existing
			return &e, false, nil
		}
	}
	rt.ID = uuid.NewString()
	r.m.ratings[rt.ID] = *rt
	return rt, true, nil
}

func (r memRatings) UpdateValue(_ context.Context, id string, value int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rt := r.m.ratings[id]
	rt.Rating = value
	r.m.ratings[id] = rt
	return nil
}

func (r memRatings) ListValues(_ context.Context, articleID string) ([]int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var values []int
	for _, rt := range r.m.ratings {
		if rt.ArticleID == articleID {
			values = append(values, rt.Rating)
		}
	}
	return values, nil
}

type memLikes struct{ m *memStore }

func (r memLikes) Add(_ context.Context, userID, articleID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := [2]string{userID, articleID}
	if _, ok := r.m.likes[key]; !ok {
		r.m.seq++
		r.m.likes[key] = r.m.seq
	}
	return nil
}

func (r memLikes) Remove(_ context.Context, userID, articleID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.likes, [2]string{userID, articleID})
	return nil
}

func (r memLikes) ListForUser(_ context.Context, userID string) ([]models.Article, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	type entry struct {
		seq int
		a   models.Article
	}
	var entries []entry
	for key, seq := range r.m.likes {
		if key[0] == userID {
			entries = append(entries, entry{seq, r.m.articles[key[1]]})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	out := make([]models.Article, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.a)
	}
	return out, nil
}

type countingViews struct {
	mu    sync.Mutex
	count map[string]int
	err   error
}

func (v *countingViews) Add(_ context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.count == nil {
		v.count = map[string]int{}
	}
	v.count[id]++
	return v.err
}
