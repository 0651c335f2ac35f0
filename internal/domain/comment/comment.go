package comment

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// Comment is a server-defined record and passes through unchanged.
type Comment = json.RawMessage

// Reasons is the reason list shipped with the shared components resource.
type Reasons = json.RawMessage

// Components is the subset of resources/components.json the console reads.
type Components struct {
	EventCommentReasons Reasons `json:"eventCommentReasons"`
}

// NewCommentForm builds the form body for POST event/{id}/comment.
func NewCommentForm(text, reason string) url.Values {
	form := url.Values{}
	form.Set("text", text)
	form.Set("reason", reason)
	return form
}

// NewReplyForm builds the form body for POST event/{id}/comment/{commentId}/reply.
func NewReplyForm(text string, resolved bool) url.Values {
	form := url.Values{}
	form.Set("text", text)
	form.Set("resolved", strconv.FormatBool(resolved))
	return form
}
