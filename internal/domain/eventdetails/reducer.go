package eventdetails

import (
	"github.com/execution-hub/event-console/internal/domain/acl"
	"github.com/execution-hub/event-console/internal/domain/comment"
	"github.com/execution-hub/event-console/internal/domain/workflow"
)

// Reduce applies a transition and returns the next state. Unknown
// transition types leave the state unchanged.
func Reduce(s State, t Transition) State {
	switch t.Type {
	case LoadPoliciesInProgress:
		s.PoliciesStatus = StatusInProgress
	case LoadPoliciesSuccess:
		s.PoliciesStatus = StatusSucceeded
		s.Policies = t.Policies
		if s.Policies == nil {
			s.Policies = []acl.Policy{}
		}
	case LoadPoliciesFailure:
		s.PoliciesStatus = StatusFailed

	case LoadCommentsInProgress:
		s.CommentsStatus = StatusInProgress
	case LoadCommentsSuccess:
		s.CommentsStatus = StatusSucceeded
		s.Comments = t.Comments
		if s.Comments == nil {
			s.Comments = []comment.Comment{}
		}
		s.CommentReasons = t.Reasons
	case LoadCommentsFailure:
		s.CommentsStatus = StatusFailed
	case SaveCommentInProgress:
		s.CommentSaveStatus = StatusInProgress
	case SaveCommentDone:
		s.CommentSaveStatus = StatusDone
	case SaveReplyInProgress:
		s.ReplySaveStatus = StatusInProgress
	case SaveReplyDone:
		s.ReplySaveStatus = StatusDone

	case LoadWorkflowsInProgress:
		// every fetch replaces the workflow slice wholesale
		s.WorkflowsStatus = StatusInProgress
		s.WorkflowPhase = PhaseLoading
		s.Workflows = nil
		s.WorkflowDefinitions = []workflow.Definition{}
		s.BaseWorkflow = workflow.Selected{}
		s.WorkflowConfiguration = nil
	case LoadWorkflowsSuccess:
		s.WorkflowsStatus = StatusSucceeded
		if t.Workflows != nil {
			s.Workflows = t.Workflows
		}
		if s.Workflows != nil && s.Workflows.Kind == workflow.KindInstances {
			s.WorkflowPhase = PhaseInstancesLoaded
		} else {
			s.WorkflowPhase = PhaseConfigurableLoaded
		}
	case LoadWorkflowsFailure:
		s.WorkflowsStatus = StatusFailed
		s.WorkflowPhase = PhaseLoadFailed
	case SetWorkflowDefinitions:
		s.Workflows = t.Workflows
		s.WorkflowDefinitions = t.Definitions
		if s.WorkflowDefinitions == nil {
			s.WorkflowDefinitions = []workflow.Definition{}
		}
		s.BaseWorkflow = t.Workflows.Selected()
	case SetWorkflow:
		if t.Workflow != nil && !s.Workflows.IsInstances() {
			s.Workflows = withSelected(s.Workflows, *t.Workflow)
		}
	case SetWorkflowConfiguration:
		if t.Workflow != nil {
			cfg := *t.Workflow
			s.WorkflowConfiguration = &cfg
		}
		if s.WorkflowPhase != PhaseLoading {
			s.WorkflowPhase = PhaseConfigurationResolved
		}

	case WorkflowActionInProgress:
		s.WorkflowActionStatus = StatusInProgress
		s.WorkflowPhase = PhaseActionInProgress
	case WorkflowActionSuccess:
		s.WorkflowActionStatus = StatusSucceeded
		s.WorkflowPhase = PhaseActionSucceeded
	case WorkflowActionFailure:
		s.WorkflowActionStatus = StatusFailed
		s.WorkflowPhase = PhaseActionFailed
	}
	return s
}

func withSelected(current *workflow.State, sel workflow.Selected) *workflow.State {
	if current == nil {
		current = workflow.NewConfigurableState(nil)
	}
	next, err := current.WithSelected(sel)
	if err != nil {
		return current
	}
	return next
}
