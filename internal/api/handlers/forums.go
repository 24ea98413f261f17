package handlers

import (
	"net/http"

	"github.com/baharkarakas/hearthcloud/internal/api/httpx"
	"github.com/baharkarakas/hearthcloud/internal/services"
)

type ForumHandler struct {
	Forums *services.ForumService
	Posts  *services.PostService
}

func NewForumHandler(forums *services.ForumService, posts *services.PostService) *ForumHandler {
	return &ForumHandler{Forums: forums, Posts: posts}
}

func forumID(r *http.Request, param string) (int64, error) {
	return pathID(r, param, "forum_not_found", "forum not found")
}

func (h *ForumHandler) MyForums(w http.ResponseWriter, r *http.Request) {
	forums, err := h.Forums.MyForums(r.Context(), currentUser(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{"forums": forums})
}

func (h *ForumHandler) Search(w http.ResponseWriter, r *http.Request) {
	forums, err := h.Forums.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{"forums": forums})
}

func (h *ForumHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	id, err := h.Forums.Create(r.Context(), currentUser(r), req.Name, req.Description)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusCreated, httpx.M{"message": "forum created", "forumId": id})
}

func (h *ForumHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := forumID(r, "id")
	if err == nil {
		err = h.Forums.Delete(r.Context(), currentUser(r), id)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{"message": "forum deleted"})
}

func (h *ForumHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := forumID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	f, err := h.Forums.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{"forum": f})
}

func (h *ForumHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	id, err := forumID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	posts, err := h.Forums.Posts(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{"posts": posts})
}

type contentReq struct {
	Content string `json:"content"`
}

func (h *ForumHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req contentReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	id, err := forumID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	p, err := h.Posts.CreatePost(r.Context(), currentUser(r), id, req.Content)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusCreated, httpx.M{"message": "post created", "post": p})
}

func postID(r *http.Request) (int64, error) {
	return pathID(r, "postId", "post_not_found", "post not found")
}

func commentID(r *http.Request) (int64, error) {
	return pathID(r, "commentId", "comment_not_found", "comment not found")
}

func (h *ForumHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req contentReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	id, err := postID(r)
	if err == nil {
		err = h.Posts.UpdatePost(r.Context(), currentUser(r), id, req.Content)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{"message": "post updated"})
}

func (h *ForumHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err == nil {
		err = h.Posts.DeletePost(r.Context(), currentUser(r), id)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{"message": "post deleted"})
}

func (h *ForumHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req contentReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	id, err := postID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	c, err := h.Posts.CreateComment(r.Context(), currentUser(r), id, req.Content)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusCreated, httpx.M{"message": "comment created", "comment": c})
}

func (h *ForumHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req contentReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	id, err := commentID(r)
	if err == nil {
		err = h.Posts.UpdateComment(r.Context(), currentUser(r), id, req.Content)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{"message": "comment updated"})
}

func (h *ForumHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := commentID(r)
	if err == nil {
		err = h.Posts.DeleteComment(r.Context(), currentUser(r), id)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{"message": "comment deleted"})
}
