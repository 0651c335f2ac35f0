package eventdetails

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/execution-hub/event-console/internal/domain/eventdetails"
	"github.com/execution-hub/event-console/internal/domain/notification"
	"github.com/execution-hub/event-console/internal/domain/workflow"
)

// actionContentType is what the action endpoint is told it receives; the
// body is still form encoded.
const actionContentType = "application/json;charset=utf-8"

// FetchWorkflows loads the workflow state of an event. Events without a
// workflow additionally get the definitions catalog and a resolved
// configuration.
func (s *Service) FetchWorkflows(ctx context.Context, eventID string) eventdetails.State {
	s.dispatch(eventID, eventdetails.Of(eventdetails.LoadWorkflowsInProgress))

	var raw json.RawMessage
	if err := s.api.Get(ctx, eventPath(eventID, "workflows.json"), &raw); err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to load workflows")
		return s.dispatch(eventID, eventdetails.Of(eventdetails.LoadWorkflowsFailure))
	}

	state, err := workflow.ParseState(raw)
	if err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to parse workflows")
		return s.dispatch(eventID, eventdetails.Of(eventdetails.LoadWorkflowsFailure))
	}

	if state.Kind == workflow.KindInstances {
		return s.dispatch(eventID, eventdetails.WorkflowsLoaded(state))
	}

	defs, err := s.catalog.ListDefinitions(ctx, workflow.DefinitionsContext)
	if err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to load workflow definitions")
		return s.dispatch(eventID, eventdetails.Of(eventdetails.LoadWorkflowsFailure))
	}

	s.dispatch(eventID, eventdetails.DefinitionsAttached(state, defs))
	if err := s.changeWorkflow(ctx, eventID, false); err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to resolve workflow configuration")
		return s.dispatch(eventID, eventdetails.Of(eventdetails.LoadWorkflowsFailure))
	}

	return s.dispatch(eventID, eventdetails.WorkflowsLoaded(state))
}

// UpdateWorkflow selects a definition for the event and resolves its
// configuration. Events whose workflow is not configurable and ids missing
// from the loaded definitions are caller errors and leave the state
// untouched.
func (s *Service) UpdateWorkflow(ctx context.Context, eventID string, saveWorkflow bool, workflowID string) (eventdetails.State, error) {
	snap := s.store.Snapshot(eventID)
	if !snap.Workflows.IsConfigurable() {
		return snap, workflow.ErrNotConfigurable
	}
	def, err := workflow.FindDefinition(snap.WorkflowDefinitions, workflowID)
	if err != nil {
		return snap, err
	}

	s.dispatch(eventID, eventdetails.WorkflowSelected(workflow.Select(def)))
	err = s.changeWorkflow(ctx, eventID, saveWorkflow)
	return s.store.Snapshot(eventID), err
}

// changeWorkflow sets the configuration from the selected workflow, or from
// the base workflow when none is selected.
func (s *Service) changeWorkflow(ctx context.Context, eventID string, saveWorkflow bool) error {
	snap := s.store.Snapshot(eventID)
	cfg := workflow.ResolveConfiguration(snap.SelectedWorkflow(), snap.BaseWorkflow)
	s.dispatch(eventID, eventdetails.ConfigurationSet(cfg))

	if saveWorkflow {
		return s.saveWorkflowConfig(ctx, eventID, cfg)
	}
	return nil
}

// saveWorkflowConfig always reports ErrWorkflowConfigNotImplemented.
// TODO: persist the configuration once the backend exposes an endpoint for
// scheduling an event with a chosen workflow.
func (s *Service) saveWorkflowConfig(_ context.Context, eventID string, cfg workflow.Selected) error {
	s.logger.Warn().
		Str("event_id", eventID).
		Str("workflow_id", cfg.WorkflowID).
		Msg("workflow configuration not saved")
	return workflow.ErrWorkflowConfigNotImplemented
}

// PerformWorkflowAction triggers an action such as STOP or RETRY on a
// workflow instance. onFailure runs once when the action fails.
func (s *Service) PerformWorkflowAction(ctx context.Context, eventID, workflowID, action string, onFailure func()) Outcome {
	var out Outcome
	s.dispatch(eventID, eventdetails.Of(eventdetails.WorkflowActionInProgress))

	form := url.Values{}
	form.Set("action", action)
	form.Set("id", eventID)
	form.Set("wfId", workflowID)

	path := eventPath(eventID, "workflows", workflowID, "action", action)
	if err := s.api.Put(ctx, path, actionContentType, form); err != nil {
		s.logger.Error().Err(err).
			Str("event_id", eventID).
			Str("workflow_id", workflowID).
			Str("action", action).
			Msg("workflow action failed")
		s.notify(ctx, &out, notification.NewNotification(eventID, notification.TypeError, workflow.ActionFailedKey(action)))
		if onFailure != nil {
			onFailure()
		}
		s.dispatch(eventID, eventdetails.Of(eventdetails.WorkflowActionFailure))
		return out
	}

	s.logger.Info().
		Str("event_id", eventID).
		Str("workflow_id", workflowID).
		Str("action", action).
		Msg("workflow action performed")
	s.notify(ctx, &out, notification.NewNotification(eventID, notification.TypeSuccess, workflow.ActionSucceededKey(action)))
	s.dispatch(eventID, eventdetails.Of(eventdetails.WorkflowActionSuccess))
	out.OK = true
	return out
}
