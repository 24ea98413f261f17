package services

import (
	"context"

	"github.com/baharkarakas/hearthcloud/internal/api/validate"
	"github.com/baharkarakas/hearthcloud/internal/events"
	"github.com/baharkarakas/hearthcloud/internal/models"
	repo "github.com/baharkarakas/hearthcloud/internal/repository"
)

// PostService owns posts and their comments.
type PostService struct {
	forums   repo.Forums
	posts    repo.Posts
	comments repo.Comments
	events   events.Emitter
}

func NewPostService(forums repo.Forums, posts repo.Posts, comments repo.Comments, em events.Emitter) *PostService {
	return &PostService{forums: forums, posts: posts, comments: comments, events: em}
}

func errPostNotFound(err error) error { return lookup(err, "post_not_found", "post not found") }

func errCommentNotFound(err error) error {
	return lookup(err, "comment_not_found", "comment not found")
}

func (s *PostService) CreatePost(ctx context.Context, userID, forumID int64, content string) (models.Post, error) {
	if errs := validate.PostContent(content); !errs.Empty() {
		return models.Post{}, invalidFirst(errs)
	}
	if _, err := s.forums.OwnerOf(ctx, forumID); err != nil {
		return models.Post{}, errForumNotFound(err)
	}
	p, err := s.posts.Create(ctx, forumID, userID, content)
	if err != nil {
		return models.Post{}, errForumNotFound(err)
	}
	p.Comments = []models.Comment{}
	s.events.Emit(ctx, events.New(events.PostCreated, userID, p.ID))
	return p, nil
}

func (s *PostService) UpdatePost(ctx context.Context, userID, postID int64, content string) error {
	if errs := validate.PostContent(content); !errs.Empty() {
		return invalidFirst(errs)
	}
	owner, err := s.posts.OwnerOf(ctx, postID)
	if err := owned(owner, err, userID, "post_not_found", "post not found"); err != nil {
		return err
	}
	if err := s.posts.UpdateContent(ctx, postID, content); err != nil {
		return errPostNotFound(err)
	}
	return nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID int64) error {
	owner, err := s.posts.OwnerOf(ctx, postID)
	if err := owned(owner, err, userID, "post_not_found", "post not found"); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return errPostNotFound(err)
	}
	return nil
}

func (s *PostService) CreateComment(ctx context.Context, userID, postID int64, content string) (models.Comment, error) {
	if errs := validate.CommentContent(content); !errs.Empty() {
		return models.Comment{}, invalidFirst(errs)
	}
	if _, err := s.posts.OwnerOf(ctx, postID); err != nil {
		return models.Comment{}, errPostNotFound(err)
	}
	c, err := s.comments.Create(ctx, postID, userID, content)
	if err != nil {
		return models.Comment{}, errPostNotFound(err)
	}
	s.events.Emit(ctx, events.New(events.CommentCreated, userID, c.ID))
	return c, nil
}

func (s *PostService) UpdateComment(ctx context.Context, userID, commentID int64, content string) error {
	if errs := validate.CommentContent(content); !errs.Empty() {
		return invalidFirst(errs)
	}
	owner, err := s.comments.OwnerOf(ctx, commentID)
	if err := owned(owner, err, userID, "comment_not_found", "comment not found"); err != nil {
		return err
	}
	if err := s.comments.UpdateContent(ctx, commentID, content); err != nil {
		return errCommentNotFound(err)
	}
	return nil
}

func (s *PostService) DeleteComment(ctx context.Context, userID, commentID int64) error {
	owner, err := s.comments.OwnerOf(ctx, commentID)
	if err := owned(owner, err, userID, "comment_not_found", "comment not found"); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return errCommentNotFound(err)
	}
	return nil
}
