// Package memory implements the repository interfaces in process memory,
// mirroring the Postgres schema's case-insensitive unique and cascade rules.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/baharkarakas/hearthcloud/internal/models"
	repo "github.com/baharkarakas/hearthcloud/internal/repository"
)

type Store struct {
	mu       sync.Mutex
	seq      int64
	users    map[int64]models.User
	forums   map[int64]models.Forum
	posts    map[int64]models.Post
	comments map[int64]models.Comment
	now      func() time.Time

	// StatsErr, when set, is returned by Users.Stats.
	StatsErr error
}

func New() *Store {
	return &Store{
		users:    map[int64]models.User{},
		forums:   map[int64]models.Forum{},
		posts:    map[int64]models.Post{},
		comments: map[int64]models.Comment{},
		now:      time.Now,
	}
}

func (s *Store) Users() repo.Users       { return users{s} }
func (s *Store) Forums() repo.Forums     { return forums{s} }
func (s *Store) Posts() repo.Posts       { return posts{s} }
func (s *Store) Comments() repo.Comments { return comments{s} }

// tick returns strictly increasing timestamps so ordering is deterministic.
func (s *Store) tick() (int64, time.Time) {
	s.seq++
	return s.seq, s.now().Add(time.Duration(s.seq) * time.Millisecond)
}

func (s *Store) username(id int64) string { return s.users[id].Username }

// ---------- users ----------

type users struct{ s *Store }

func (r users) Create(_ context.Context, u models.NewUser) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.users {
		if strings.EqualFold(x.Email, u.Email) || strings.EqualFold(x.Username, u.Username) {
			return 0, repo.ErrConflict
		}
	}
	id, now := r.s.tick()
	r.s.users[id] = models.User{
		ID:                 id,
		Username:           u.Username,
		Email:              u.Email,
		PasswordHash:       u.PasswordHash,
		SecurityQuestion:   u.SecurityQuestion,
		SecurityAnswerHash: u.SecurityAnswerHash,
		CreatedAt:          now,
	}
	return id, nil
}

func (r users) GetByID(_ context.Context, id int64) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r users) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (r users) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r users) UsernameExists(_ context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (r users) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.PasswordHash = hash
	r.s.users[id] = u
	return nil
}

func (r users) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.users, id)
	for fid, f := range r.s.forums {
		if f.UserID == id {
			r.s.deleteForum(fid)
		}
	}
	for pid, p := range r.s.posts {
		if p.UserID == id {
			r.s.deletePost(pid)
		}
	}
	for cid, c := range r.s.comments {
		if c.UserID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

func (r users) Stats(_ context.Context, id int64) (models.UserStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.StatsErr != nil {
		return models.UserStats{}, r.s.StatsErr
	}
	var st models.UserStats
	for _, f := range r.s.forums {
		if f.UserID == id {
			st.ForumsCreated++
		}
	}
	for _, p := range r.s.posts {
		if p.UserID == id {
			st.Posts++
		}
	}
	for _, c := range r.s.comments {
		if c.UserID == id {
			st.Comments++
		}
	}
	return st, nil
}

// ---------- forums ----------

type forums struct{ s *Store }

func (r forums) Create(_ context.Context, name, description string, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[userID]; !ok {
		return 0, repo.ErrNotFound
	}
	for _, f := range r.s.forums {
		if strings.EqualFold(f.Name, name) {
			return 0, repo.ErrConflict
		}
	}
	id, now := r.s.tick()
	r.s.forums[id] = models.Forum{ID: id, Name: name, Description: description, UserID: userID, CreatedAt: now}
	return id, nil
}

func (r forums) withAuthor(f models.Forum) models.Forum {
	f.Author = r.s.username(f.UserID)
	return f
}

func (r forums) GetByID(_ context.Context, id int64) (models.Forum, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.forums[id]
	if !ok {
		return models.Forum{}, repo.ErrNotFound
	}
	return r.withAuthor(f), nil
}

func (r forums) OwnerOf(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.forums[id]
	if !ok {
		return 0, repo.ErrNotFound
	}
	return f.UserID, nil
}

func (r forums) NameExists(_ context.Context, name string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.forums {
		if strings.EqualFold(f.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r forums) list(keep func(models.Forum) bool) []models.Forum {
	var out []models.Forum
	for _, f := range r.s.forums {
		if keep(f) {
			out = append(out, r.withAuthor(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r forums) ListByUser(_ context.Context, userID int64, limit int) ([]models.Forum, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.list(func(f models.Forum) bool { return f.UserID == userID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r forums) Search(_ context.Context, q string) ([]models.Forum, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q = strings.ToLower(q)
	return r.list(func(f models.Forum) bool { return strings.Contains(strings.ToLower(f.Name), q) }), nil
}

func (r forums) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.forums[id]; !ok {
		return repo.ErrNotFound
	}
	r.s.deleteForum(id)
	return nil
}

func (s *Store) deleteForum(id int64) {
	delete(s.forums, id)
	for pid, p := range s.posts {
		if p.ForumID == id {
			s.deletePost(pid)
		}
	}
}

// ---------- posts ----------

type posts struct{ s *Store }

func (r posts) Create(_ context.Context, forumID, userID int64, content string) (models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.forums[forumID]; !ok {
		return models.Post{}, repo.ErrNotFound
	}
	if _, ok := r.s.users[userID]; !ok {
		return models.Post{}, repo.ErrNotFound
	}
	id, now := r.s.tick()
	p := models.Post{ID: id, Content: content, UserID: userID, ForumID: forumID, PublishedAt: now}
	r.s.posts[id] = p
	p.Author = r.s.username(userID)
	return p, nil
}

func (r posts) OwnerOf(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return 0, repo.ErrNotFound
	}
	return p.UserID, nil
}

func (r posts) ListByForum(_ context.Context, forumID int64) ([]models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Post
	for _, p := range r.s.posts {
		if p.ForumID == forumID {
			p.Author = r.s.username(p.UserID)
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out, nil
}

func (r posts) UpdateContent(_ context.Context, id int64, content string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return repo.ErrNotFound
	}
	_, now := r.s.tick()
	p.Content = content
	p.UpdatedAt = &now
	r.s.posts[id] = p
	return nil
}

func (r posts) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return repo.ErrNotFound
	}
	r.s.deletePost(id)
	return nil
}

func (s *Store) deletePost(id int64) {
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
}

// Post returns the stored post, for assertions.
func (s *Store) Post(id int64) (models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	return p, ok
}

// ---------- comments ----------

type comments struct{ s *Store }

func (r comments) Create(_ context.Context, postID, userID int64, content string) (models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[postID]; !ok {
		return models.Comment{}, repo.ErrNotFound
	}
	if _, ok := r.s.users[userID]; !ok {
		return models.Comment{}, repo.ErrNotFound
	}
	id, now := r.s.tick()
	c := models.Comment{ID: id, Content: content, UserID: userID, PostID: postID, CreatedAt: now}
	r.s.comments[id] = c
	c.Author = r.s.username(userID)
	return c, nil
}

func (r comments) OwnerOf(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return 0, repo.ErrNotFound
	}
	return c.UserID, nil
}

func (r comments) ListByPosts(_ context.Context, postIDs []int64) ([]models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[int64]bool, len(postIDs))
	for _, id := range postIDs {
		want[id] = true
	}
	var out []models.Comment
	for _, c := range r.s.comments {
		if want[c.PostID] {
			c.Author = r.s.username(c.UserID)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r comments) UpdateContent(_ context.Context, id int64, content string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return repo.ErrNotFound
	}
	_, now := r.s.tick()
	c.Content = content
	c.UpdatedAt = &now
	r.s.comments[id] = c
	return nil
}

func (r comments) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}
