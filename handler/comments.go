package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/perspective/database/repository"
	"github.com/perspective/handler/payload"
	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/live"
)

type CommentsHandler struct {
	Articles repository.Articles
	Comments repository.Comments
	Feed     live.Feed
}

func NewCommentsHandler(articles repository.Articles, comments repository.Comments, feed live.Feed) CommentsHandler {
	return CommentsHandler{
		Articles: articles,
		Comments: comments,
		Feed:     feed,
	}
}

func (h CommentsHandler) Index(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	thread, apiErr := h.thread(r, nil)
	if apiErr != nil {
		return apiErr
	}

	defer thread.Close()

	return respond(w, r, http.StatusOK, payload.CommentsResponse{CommentsState: thread.Load(r.Context())})
}

// Stream pushes the thread on every comment change and whenever the caller's session changes.
func (h CommentsHandler) Stream(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	thread, apiErr := h.thread(r, nil)
	if apiErr != nil {
		return apiErr
	}

	defer thread.Close()

	stream, apiErr := endpoint.NewStream(w)
	if apiErr != nil {
		return apiErr
	}

	defer trackStream("comments")()

	thread.Start(r.Context())

	if err := endpoint.Pump(r.Context(), stream, thread.Updates(), 0); err != nil {
		slog.Warn("comments stream ended", "article_id", pathID(r, "id"), "error", err)
	}

	return nil
}

func (h CommentsHandler) Store(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	req, closer, err := endpoint.ParseRequestBody[payload.CommentRequest](r)
	closer()

	if err != nil {
		return endpoint.LogBadRequestError("could not read the comment", err)
	}

	notices := &live.Notices{}

	thread, apiErr := h.thread(r, notices)
	if apiErr != nil {
		return apiErr
	}

	defer thread.Close()

	if !thread.Add(r.Context(), req.Content) {
		return noticeError(notices)
	}

	return h.respondWithThread(w, r, http.StatusCreated, thread, notices)
}

func (h CommentsHandler) Update(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	req, closer, err := endpoint.ParseRequestBody[payload.CommentRequest](r)
	closer()

	if err != nil {
		return endpoint.LogBadRequestError("could not read the comment", err)
	}

	notices := &live.Notices{}

	thread, apiErr := h.thread(r, notices)
	if apiErr != nil {
		return apiErr
	}

	defer thread.Close()

	if !thread.Update(r.Context(), pathID(r, "comment"), req.Content) {
		return noticeError(notices)
	}

	return h.respondWithThread(w, r, http.StatusOK, thread, notices)
}

func (h CommentsHandler) Destroy(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	notices := &live.Notices{}

	thread, apiErr := h.thread(r, notices)
	if apiErr != nil {
		return apiErr
	}

	defer thread.Close()

	if !thread.Delete(r.Context(), pathID(r, "comment")) {
		return noticeError(notices)
	}

	return h.respondWithThread(w, r, http.StatusOK, thread, notices)
}

// thread opens the comment view of a published article, or a 404.
func (h CommentsHandler) thread(r *http.Request, notifier live.Notifier) (*live.Comments, *endpoint.ApiError) {
	id := pathID(r, "id")

	article, err := h.Articles.FindPublished(r.Context(), id)
	if err != nil {
		return nil, endpoint.LogInternalError("Error getting the article", err)
	}

	if article == nil {
		return nil, endpoint.NotFound("Article not found")
	}

	return live.NewComments(h.Comments, h.Feed, article.ID, authState(r), notifier), nil
}

func (h CommentsHandler) respondWithThread(w http.ResponseWriter, r *http.Request, status int, thread *live.Comments, notices *live.Notices) *endpoint.ApiError {
	out := payload.CommentsResponse{CommentsState: thread.Load(r.Context())}

	if notice, ok := notices.Last(); ok {
		out.Notice = &notice
	}

	return respond(w, r, status, out)
}

// noticeError maps the failure reported by a comment action to its HTTP error.
func noticeError(notices *live.Notices) *endpoint.ApiError {
	notice, ok := notices.Last()
	if !ok {
		return endpoint.InternalError("The comment action failed")
	}

	data := map[string]any{"notice": notice.Message}

	switch {
	case errors.Is(notice.Err, live.ErrLoginRequired):
		return endpoint.Unauthorised(notice.Message)
	case errors.Is(notice.Err, repository.ErrNotFound):
		return endpoint.NotFound("Comment not found")
	case errors.Is(notice.Err, repository.ErrNotCommentOwner):
		return endpoint.Forbidden(notice.Message)
	case errors.Is(notice.Err, repository.ErrEmptyComment), errors.Is(notice.Err, repository.ErrCommentTooLong):
		return endpoint.UnprocessableEntity(notice.Message, map[string]any{"content": notice.Err.Error()})
	default:
		return &endpoint.ApiError{
			Message: notice.Message,
			Status:  http.StatusInternalServerError,
			Data:    data,
			Err:     notice.Err,
		}
	}
}
