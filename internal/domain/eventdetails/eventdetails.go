package eventdetails

import (
	"github.com/execution-hub/event-console/internal/domain/acl"
	"github.com/execution-hub/event-console/internal/domain/comment"
	"github.com/execution-hub/event-console/internal/domain/workflow"
)

// Status describes the progress of one slice of the event details state.
type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusInProgress Status = "IN_PROGRESS"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusFailed     Status = "FAILED"
	StatusDone       Status = "DONE"
)

// WorkflowPhase tracks the workflow sub-flow of an event.
type WorkflowPhase string

const (
	PhaseIdle                  WorkflowPhase = "IDLE"
	PhaseLoading               WorkflowPhase = "LOADING"
	PhaseLoadFailed            WorkflowPhase = "LOAD_FAILED"
	PhaseInstancesLoaded       WorkflowPhase = "INSTANCES_LOADED"
	PhaseConfigurableLoaded    WorkflowPhase = "CONFIGURABLE_LOADED"
	PhaseConfigurationResolved WorkflowPhase = "CONFIGURATION_RESOLVED"
	PhaseActionInProgress      WorkflowPhase = "ACTION_IN_PROGRESS"
	PhaseActionSucceeded       WorkflowPhase = "ACTION_SUCCEEDED"
	PhaseActionFailed          WorkflowPhase = "ACTION_FAILED"
)

// State is everything the event details view shows for one event.
type State struct {
	EventID string `json:"eventId"`

	Policies       []acl.Policy `json:"policies"`
	PoliciesStatus Status       `json:"policiesStatus"`

	Comments          []comment.Comment `json:"comments"`
	CommentReasons    comment.Reasons   `json:"commentReasons,omitempty"`
	CommentsStatus    Status            `json:"commentsStatus"`
	CommentSaveStatus Status            `json:"commentSaveStatus"`
	ReplySaveStatus   Status            `json:"replySaveStatus"`

	Workflows             *workflow.State       `json:"workflows,omitempty"`
	WorkflowDefinitions   []workflow.Definition `json:"workflowDefinitions"`
	BaseWorkflow          workflow.Selected     `json:"baseWorkflow"`
	WorkflowConfiguration *workflow.Selected    `json:"workflowConfiguration,omitempty"`
	WorkflowsStatus       Status                `json:"workflowsStatus"`
	WorkflowActionStatus  Status                `json:"workflowActionStatus"`
	WorkflowPhase         WorkflowPhase         `json:"workflowPhase"`
}

// NewState creates the idle state of an event.
func NewState(eventID string) State {
	return State{
		EventID:              eventID,
		Policies:             []acl.Policy{},
		PoliciesStatus:       StatusIdle,
		Comments:             []comment.Comment{},
		CommentsStatus:       StatusIdle,
		CommentSaveStatus:    StatusIdle,
		ReplySaveStatus:      StatusIdle,
		WorkflowDefinitions:  []workflow.Definition{},
		WorkflowsStatus:      StatusIdle,
		WorkflowActionStatus: StatusIdle,
		WorkflowPhase:        PhaseIdle,
	}
}

// SelectedWorkflow is the workflow currently held by the workflow state.
func (s State) SelectedWorkflow() workflow.Selected {
	return s.Workflows.Selected()
}
