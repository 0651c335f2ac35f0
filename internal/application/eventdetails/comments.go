package eventdetails

import (
	"context"

	"github.com/execution-hub/event-console/internal/domain/comment"
	"github.com/execution-hub/event-console/internal/domain/eventdetails"
)

const componentsPath = "resources/components.json"

// FetchComments loads the comments of an event and the comment reasons.
func (s *Service) FetchComments(ctx context.Context, eventID string) eventdetails.State {
	s.dispatch(eventID, eventdetails.Of(eventdetails.LoadCommentsInProgress))

	var comments []comment.Comment
	if err := s.api.Get(ctx, eventPath(eventID, "comments"), &comments); err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to load comments")
		return s.dispatch(eventID, eventdetails.Of(eventdetails.LoadCommentsFailure))
	}

	var components comment.Components
	if err := s.api.Get(ctx, componentsPath, &components); err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to load comment reasons")
		return s.dispatch(eventID, eventdetails.Of(eventdetails.LoadCommentsFailure))
	}

	return s.dispatch(eventID, eventdetails.CommentsLoaded(comments, components.EventCommentReasons))
}

// SaveComment adds a comment. The save status ends in done whether or not
// the request succeeded.
func (s *Service) SaveComment(ctx context.Context, eventID, text, reason string) bool {
	s.dispatch(eventID, eventdetails.Of(eventdetails.SaveCommentInProgress))
	defer s.dispatch(eventID, eventdetails.Of(eventdetails.SaveCommentDone))

	if err := s.api.PostForm(ctx, eventPath(eventID, "comment"), comment.NewCommentForm(text, reason)); err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to save comment")
		return false
	}
	return true
}

// DeleteComment removes a comment.
func (s *Service) DeleteComment(ctx context.Context, eventID, commentID string) bool {
	if err := s.api.Delete(ctx, eventPath(eventID, "comment", commentID)); err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Str("comment_id", commentID).Msg("failed to delete comment")
		return false
	}
	return true
}

// SaveCommentReply answers a comment, optionally resolving it.
func (s *Service) SaveCommentReply(ctx context.Context, eventID, commentID, text string, resolved bool) bool {
	s.dispatch(eventID, eventdetails.Of(eventdetails.SaveReplyInProgress))
	defer s.dispatch(eventID, eventdetails.Of(eventdetails.SaveReplyDone))

	path := eventPath(eventID, "comment", commentID, "reply")
	if err := s.api.PostForm(ctx, path, comment.NewReplyForm(text, resolved)); err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Str("comment_id", commentID).Msg("failed to save comment reply")
		return false
	}
	return true
}

// DeleteCommentReply removes a reply from a comment.
func (s *Service) DeleteCommentReply(ctx context.Context, eventID, commentID, replyID string) bool {
	if err := s.api.Delete(ctx, eventPath(eventID, "comment", commentID, replyID)); err != nil {
		s.logger.Error().Err(err).
			Str("event_id", eventID).
			Str("comment_id", commentID).
			Str("reply_id", replyID).
			Msg("failed to delete comment reply")
		return false
	}
	return true
}
