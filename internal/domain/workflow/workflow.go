package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind tells the two shapes of an event's workflow state apart.
type Kind string

const (
	// KindInstances means workflows already exist or ran for the event.
	KindInstances Kind = "INSTANCES"
	// KindConfigurable means the event has no workflow yet and one must be
	// chosen and configured before it can run.
	KindConfigurable Kind = "CONFIGURABLE"
)

// DefinitionsContext is the tag the event details view loads definitions for.
const DefinitionsContext = "event-details"

// Actions accepted by the workflow action endpoint.
const (
	ActionStop  = "STOP"
	ActionRetry = "RETRY"
)

var (
	ErrUnknownDefinition            = errors.New("unknown workflow definition")
	ErrUnexpectedShape              = errors.New("unexpected workflow payload shape")
	ErrWorkflowConfigNotImplemented = errors.New("saving workflow configuration is not implemented")
	ErrNotConfigurable              = errors.New("event workflow is not configurable")
)

// Definition is a reusable workflow template from the definitions catalog.
type Definition struct {
	ID            string          `json:"id"`
	Title         string          `json:"title,omitempty"`
	Description   string          `json:"description"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
}

// Selected is the workflow picked for an event together with its configuration.
type Selected struct {
	WorkflowID    string          `json:"workflowId"`
	Description   string          `json:"description"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
}

// HasWorkflow reports whether a workflow has been chosen.
func (s Selected) HasWorkflow() bool {
	return s.WorkflowID != ""
}

// State is the event's workflow state. It is built once from the server
// payload by ParseState and replaced wholesale on the next fetch.
type State struct {
	Kind       Kind              `json:"kind"`
	Scheduling bool              `json:"scheduling"`
	Entries    []json.RawMessage `json:"entries"`
	Workflow   json.RawMessage   `json:"workflow"`
}

var emptySummary = json.RawMessage(`{"id":"","description":""}`)

// NewInstancesState builds the state for events with existing workflow instances.
func NewInstancesState(entries []json.RawMessage) *State {
	if entries == nil {
		entries = []json.RawMessage{}
	}
	return &State{
		Kind:       KindInstances,
		Scheduling: false,
		Entries:    entries,
		Workflow:   emptySummary,
	}
}

// NewConfigurableState builds the state for events waiting for a workflow.
// The raw payload is kept as the state's workflow.
func NewConfigurableState(raw json.RawMessage) *State {
	return &State{
		Kind:       KindConfigurable,
		Scheduling: true,
		Entries:    []json.RawMessage{},
		Workflow:   raw,
	}
}

// ParseState decides the variant of a workflows.json payload. An object
// with a non-null "results" field lists instances; any other JSON value is
// the configurable workflow itself.
func ParseState(body []byte) (*State, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	if decoded == nil {
		return nil, fmt.Errorf("%w: null payload", ErrUnexpectedShape)
	}

	if fields, ok := decoded.(map[string]any); ok && fields["results"] != nil {
		var listed struct {
			Results []json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(body, &listed); err != nil {
			return nil, fmt.Errorf("%w: results is not a list", ErrUnexpectedShape)
		}
		return NewInstancesState(listed.Results), nil
	}

	raw := make(json.RawMessage, len(body))
	copy(raw, body)
	return NewConfigurableState(raw), nil
}

// IsConfigurable reports whether a workflow can be chosen for the event.
func (s *State) IsConfigurable() bool {
	return s != nil && s.Kind == KindConfigurable
}

// IsInstances reports whether the event already runs workflow instances.
func (s *State) IsInstances() bool {
	return s != nil && s.Kind == KindInstances
}

// Selected decodes the state's workflow as a selection. Instance states and
// payloads without a workflow id yield an empty selection.
func (s *State) Selected() Selected {
	var sel Selected
	if s == nil || len(s.Workflow) == 0 {
		return sel
	}
	_ = json.Unmarshal(s.Workflow, &sel)
	return sel
}

// WithSelected returns a copy of the state holding sel as its workflow.
func (s *State) WithSelected(sel Selected) (*State, error) {
	data, err := json.Marshal(sel)
	if err != nil {
		return nil, err
	}
	cp := *s
	cp.Workflow = data
	return &cp, nil
}

// FindDefinition looks a definition up by id.
func FindDefinition(defs []Definition, id string) (Definition, error) {
	for _, def := range defs {
		if def.ID == id {
			return def, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %s", ErrUnknownDefinition, id)
}

// Select derives the selection for a definition.
func Select(def Definition) Selected {
	return Selected{
		WorkflowID:    def.ID,
		Description:   def.Description,
		Configuration: def.Configuration,
	}
}

// ResolveConfiguration picks the workflow whose configuration applies: the
// selected one when it names a workflow, the base workflow otherwise.
func ResolveConfiguration(selected, base Selected) Selected {
	if selected.HasWorkflow() {
		return selected
	}
	return base
}

// ActionSucceededKey is the message key announcing a successful action.
func ActionSucceededKey(action string) string {
	return "EVENTS_PROCESSING_ACTION_" + action
}

// ActionFailedKey is the message key announcing a failed action.
func ActionFailedKey(action string) string {
	return "EVENTS_PROCESSING_ACTION_NOT_" + action
}
