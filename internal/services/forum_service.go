package services

import (
	"context"
	"errors"

	"github.com/baharkarakas/hearthcloud/internal/api/validate"
	"github.com/baharkarakas/hearthcloud/internal/apperr"
	"github.com/baharkarakas/hearthcloud/internal/events"
	"github.com/baharkarakas/hearthcloud/internal/models"
	repo "github.com/baharkarakas/hearthcloud/internal/repository"
)

const myForumsLimit = 10

type ForumService struct {
	forums   repo.Forums
	posts    repo.Posts
	comments repo.Comments
	events   events.Emitter
}

func NewForumService(forums repo.Forums, posts repo.Posts, comments repo.Comments, em events.Emitter) *ForumService {
	return &ForumService{forums: forums, posts: posts, comments: comments, events: em}
}

func errForumNotFound(err error) error { return lookup(err, "forum_not_found", "forum not found") }

func (s *ForumService) MyForums(ctx context.Context, userID int64) ([]models.Forum, error) {
	out, err := s.forums.ListByUser(ctx, userID, myForumsLimit)
	if err != nil {
		return nil, internal(err)
	}
	return nonNil(out), nil
}

func (s *ForumService) Search(ctx context.Context, q string) ([]models.Forum, error) {
	if errs := validate.SearchQuery(q); !errs.Empty() {
		return nil, invalidFirst(errs)
	}
	out, err := s.forums.Search(ctx, q)
	if err != nil {
		return nil, internal(err)
	}
	return nonNil(out), nil
}

func errForumNameTaken() error {
	return apperr.Conflict("forum_name_taken", "a forum with that name already exists").WithField("name")
}

func (s *ForumService) Create(ctx context.Context, userID int64, name, description string) (int64, error) {
	if errs := validate.Forum(name, description); !errs.Empty() {
		return 0, invalid(errs)
	}
	taken, err := s.forums.NameExists(ctx, name)
	if err != nil {
		return 0, internal(err)
	}
	if taken {
		return 0, errForumNameTaken()
	}
	id, err := s.forums.Create(ctx, name, description, userID)
	if errors.Is(err, repo.ErrConflict) {
		return 0, errForumNameTaken()
	}
	if err != nil {
		return 0, internal(err)
	}
	s.events.Emit(ctx, events.New(events.ForumCreated, userID, id))
	return id, nil
}

func (s *ForumService) Delete(ctx context.Context, userID, forumID int64) error {
	owner, err := s.forums.OwnerOf(ctx, forumID)
	if err := owned(owner, err, userID, "forum_not_found", "forum not found"); err != nil {
		return err
	}
	if err := s.forums.Delete(ctx, forumID); err != nil {
		return errForumNotFound(err)
	}
	return nil
}

// Get checks existence uncached, then serves the forum from the cached read.
func (s *ForumService) Get(ctx context.Context, forumID int64) (models.Forum, error) {
	if _, err := s.forums.OwnerOf(ctx, forumID); err != nil {
		return models.Forum{}, errForumNotFound(err)
	}
	f, err := s.forums.GetByID(ctx, forumID)
	if err != nil {
		return models.Forum{}, errForumNotFound(err)
	}
	return f, nil
}

// Posts returns the forum's posts newest first, each with its comments
// oldest first.
func (s *ForumService) Posts(ctx context.Context, forumID int64) ([]models.Post, error) {
	if _, err := s.forums.OwnerOf(ctx, forumID); err != nil {
		return nil, errForumNotFound(err)
	}
	posts, err := s.posts.ListByForum(ctx, forumID)
	if err != nil {
		return nil, internal(err)
	}
	if len(posts) == 0 {
		return []models.Post{}, nil
	}

	ids := make([]int64, len(posts))
	byID := make(map[int64]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		byID[posts[i].ID] = i
		posts[i].Comments = []models.Comment{}
	}
	comments, err := s.comments.ListByPosts(ctx, ids)
	if err != nil {
		return nil, internal(err)
	}
	for _, c := range comments {
		if i, ok := byID[c.PostID]; ok {
			posts[i].Comments = append(posts[i].Comments, c)
		}
	}
	return posts, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
