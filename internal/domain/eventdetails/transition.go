package eventdetails

import (
	"github.com/execution-hub/event-console/internal/domain/acl"
	"github.com/execution-hub/event-console/internal/domain/comment"
	"github.com/execution-hub/event-console/internal/domain/workflow"
)

// TransitionType names a state transition.
type TransitionType string

const (
	LoadPoliciesInProgress TransitionType = "LOAD_EVENT_POLICIES_IN_PROGRESS"
	LoadPoliciesSuccess    TransitionType = "LOAD_EVENT_POLICIES_SUCCESS"
	LoadPoliciesFailure    TransitionType = "LOAD_EVENT_POLICIES_FAILURE"

	LoadCommentsInProgress TransitionType = "LOAD_EVENT_COMMENTS_IN_PROGRESS"
	LoadCommentsSuccess    TransitionType = "LOAD_EVENT_COMMENTS_SUCCESS"
	LoadCommentsFailure    TransitionType = "LOAD_EVENT_COMMENTS_FAILURE"
	SaveCommentInProgress  TransitionType = "SAVE_COMMENT_IN_PROGRESS"
	SaveCommentDone        TransitionType = "SAVE_COMMENT_DONE"
	SaveReplyInProgress    TransitionType = "SAVE_COMMENT_REPLY_IN_PROGRESS"
	SaveReplyDone          TransitionType = "SAVE_COMMENT_REPLY_DONE"

	LoadWorkflowsInProgress  TransitionType = "LOAD_EVENT_WORKFLOWS_IN_PROGRESS"
	LoadWorkflowsSuccess     TransitionType = "LOAD_EVENT_WORKFLOWS_SUCCESS"
	LoadWorkflowsFailure     TransitionType = "LOAD_EVENT_WORKFLOWS_FAILURE"
	SetWorkflowDefinitions   TransitionType = "SET_EVENT_WORKFLOW_DEFINITIONS"
	SetWorkflow              TransitionType = "SET_EVENT_WORKFLOW"
	SetWorkflowConfiguration TransitionType = "SET_EVENT_WORKFLOW_CONFIGURATION"

	WorkflowActionInProgress TransitionType = "DO_EVENT_WORKFLOW_ACTION_IN_PROGRESS"
	WorkflowActionSuccess    TransitionType = "DO_EVENT_WORKFLOW_ACTION_SUCCESS"
	WorkflowActionFailure    TransitionType = "DO_EVENT_WORKFLOW_ACTION_FAILURE"
)

// Transition is a dispatched state change. Only the fields relevant to
// its type are set.
type Transition struct {
	Type        TransitionType        `json:"type"`
	Policies    []acl.Policy          `json:"policies,omitempty"`
	Comments    []comment.Comment     `json:"comments,omitempty"`
	Reasons     comment.Reasons       `json:"commentReasons,omitempty"`
	Workflows   *workflow.State       `json:"workflows,omitempty"`
	Definitions []workflow.Definition `json:"workflowDefinitions,omitempty"`
	Workflow    *workflow.Selected    `json:"workflow,omitempty"`
}

// Is reports whether the transition has type tt.
func (t Transition) Is(tt TransitionType) bool {
	return t.Type == tt
}

func PoliciesLoaded(policies []acl.Policy) Transition {
	return Transition{Type: LoadPoliciesSuccess, Policies: policies}
}

func CommentsLoaded(comments []comment.Comment, reasons comment.Reasons) Transition {
	return Transition{Type: LoadCommentsSuccess, Comments: comments, Reasons: reasons}
}

func WorkflowsLoaded(state *workflow.State) Transition {
	return Transition{Type: LoadWorkflowsSuccess, Workflows: state}
}

// DefinitionsAttached associates definitions with a workflow state.
func DefinitionsAttached(state *workflow.State, defs []workflow.Definition) Transition {
	return Transition{Type: SetWorkflowDefinitions, Workflows: state, Definitions: defs}
}

func WorkflowSelected(sel workflow.Selected) Transition {
	return Transition{Type: SetWorkflow, Workflow: &sel}
}

func ConfigurationSet(sel workflow.Selected) Transition {
	return Transition{Type: SetWorkflowConfiguration, Workflow: &sel}
}

// Of builds a transition that carries no payload.
func Of(tt TransitionType) Transition {
	return Transition{Type: tt}
}
