package eventdetails

import (
	"context"

	"github.com/execution-hub/event-console/internal/domain/acl"
	"github.com/execution-hub/event-console/internal/domain/eventdetails"
	"github.com/execution-hub/event-console/internal/domain/notification"
)

// FetchAccessPolicies loads the ACL of an event and stores it as policies.
func (s *Service) FetchAccessPolicies(ctx context.Context, eventID string) eventdetails.State {
	s.dispatch(eventID, eventdetails.Of(eventdetails.LoadPoliciesInProgress))

	var resp acl.AccessResponse
	if err := s.api.Get(ctx, eventPath(eventID, "access.json"), &resp); err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to load access policies")
		return s.dispatch(eventID, eventdetails.Of(eventdetails.LoadPoliciesFailure))
	}

	return s.dispatch(eventID, eventdetails.PoliciesLoaded(acl.Decode(resp)))
}

// SaveAccessPolicies replaces the ACL of an event.
func (s *Service) SaveAccessPolicies(ctx context.Context, eventID string, policies []acl.Policy) Outcome {
	var out Outcome

	form, err := acl.Encode(policies)
	if err == nil {
		err = s.api.PostForm(ctx, eventPath(eventID, "access"), form)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to save access policies")
		s.notify(ctx, &out, notification.NewNotification(eventID, notification.TypeError, notification.KeyACLNotSaved))
		return out
	}

	s.logger.Info().Str("event_id", eventID).Int("policies", len(policies)).Msg("access policies saved")
	s.notify(ctx, &out, notification.NewNotification(eventID, notification.TypeInfo, notification.KeyACLSaved))
	out.OK = true
	return out
}

// FetchHasActiveTransactions reports whether the event has an active
// transaction. It returns nil when the backend could not answer.
func (s *Service) FetchHasActiveTransactions(ctx context.Context, eventID string) *bool {
	var active bool
	if err := s.api.Get(ctx, eventPath(eventID, "hasActiveTransaction"), &active); err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to check active transactions")
		return nil
	}
	return &active
}
