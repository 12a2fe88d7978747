package payload

import "github.com/perspective/pkg/live"

type CommentRequest struct {
	Content string `json:"content"`
}

// CommentsResponse carries the thread plus the notice of the action that produced it.
type CommentsResponse struct {
	live.CommentsState
	Notice *live.Notice `json:"notice,omitempty"`
}
