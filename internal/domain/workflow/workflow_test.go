package workflow

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseState(t *testing.T) {
	t.Run("results payload lists instances", func(t *testing.T) {
		state, err := ParseState([]byte(`{"results":[{"id":1,"status":"SUCCEEDED"},{"id":2,"status":"RUNNING"}]}`))
		require.NoError(t, err)

		assert.Equal(t, KindInstances, state.Kind)
		assert.False(t, state.Scheduling)
		require.Len(t, state.Entries, 2)
		assert.JSONEq(t, `{"id":1,"status":"SUCCEEDED"}`, string(state.Entries[0]))
		assert.JSONEq(t, `{"id":2,"status":"RUNNING"}`, string(state.Entries[1]))
		assert.JSONEq(t, `{"id":"","description":""}`, string(state.Workflow))
	})

	t.Run("empty results still lists instances", func(t *testing.T) {
		state, err := ParseState([]byte(`{"results":[]}`))
		require.NoError(t, err)
		assert.Equal(t, KindInstances, state.Kind)
		assert.Empty(t, state.Entries)
	})

	t.Run("payload without results is configurable", func(t *testing.T) {
		body := `{"workflowId":"fast","description":"Fast","configuration":{"publish":"true"}}`
		state, err := ParseState([]byte(body))
		require.NoError(t, err)

		assert.Equal(t, KindConfigurable, state.Kind)
		assert.True(t, state.Scheduling)
		assert.Empty(t, state.Entries)
		assert.JSONEq(t, body, string(state.Workflow))
	})

	t.Run("null results is configurable", func(t *testing.T) {
		state, err := ParseState([]byte(`{"results":null,"workflowId":""}`))
		require.NoError(t, err)
		assert.Equal(t, KindConfigurable, state.Kind)
	})

	t.Run("results that is not a list", func(t *testing.T) {
		_, err := ParseState([]byte(`{"results":"nope"}`))
		assert.True(t, errors.Is(err, ErrUnexpectedShape))
	})

	t.Run("payload that is not an object is configurable", func(t *testing.T) {
		for _, body := range []string{`[1,2]`, `"unexpected"`, `true`} {
			state, err := ParseState([]byte(body))
			require.NoError(t, err, body)
			assert.Equal(t, KindConfigurable, state.Kind, body)
			assert.JSONEq(t, body, string(state.Workflow))
			assert.False(t, state.Selected().HasWorkflow(), body)
		}
	})

	t.Run("null or malformed payload", func(t *testing.T) {
		_, err := ParseState([]byte(`null`))
		assert.True(t, errors.Is(err, ErrUnexpectedShape))

		_, err = ParseState([]byte(`{"results":`))
		assert.True(t, errors.Is(err, ErrUnexpectedShape))
	})
}

func TestStateSelected(t *testing.T) {
	state := NewConfigurableState(json.RawMessage(`{"workflowId":"fast","description":"Fast","configuration":{"a":"b"}}`))
	sel := state.Selected()
	assert.Equal(t, "fast", sel.WorkflowID)
	assert.Equal(t, "Fast", sel.Description)
	assert.JSONEq(t, `{"a":"b"}`, string(sel.Configuration))

	assert.False(t, NewInstancesState(nil).Selected().HasWorkflow())

	var nilState *State
	assert.False(t, nilState.Selected().HasWorkflow())
}

func TestStateWithSelected(t *testing.T) {
	state := NewConfigurableState(json.RawMessage(`{"workflowId":""}`))
	updated, err := state.WithSelected(Selected{WorkflowID: "full", Description: "Full"})
	require.NoError(t, err)

	assert.Equal(t, "full", updated.Selected().WorkflowID)
	assert.False(t, state.Selected().HasWorkflow())
	assert.True(t, updated.Scheduling)
}

func TestFindDefinition(t *testing.T) {
	defs := []Definition{
		{ID: "fast", Description: "Fast"},
		{ID: "full", Description: "Full", Configuration: json.RawMessage(`{"x":1}`)},
	}

	def, err := FindDefinition(defs, "full")
	require.NoError(t, err)
	assert.Equal(t, "Full", def.Description)

	_, err = FindDefinition(defs, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownDefinition))
	assert.Contains(t, err.Error(), "missing")
}

func TestSelect(t *testing.T) {
	sel := Select(Definition{ID: "full", Title: "Full", Description: "Full run", Configuration: json.RawMessage(`{"x":1}`)})
	assert.Equal(t, Selected{WorkflowID: "full", Description: "Full run", Configuration: json.RawMessage(`{"x":1}`)}, sel)
}

func TestResolveConfiguration(t *testing.T) {
	base := Selected{WorkflowID: "base", Configuration: json.RawMessage(`{"from":"base"}`)}

	t.Run("selected workflow wins", func(t *testing.T) {
		selected := Selected{WorkflowID: "fast", Configuration: json.RawMessage(`{"from":"selected"}`)}
		got := ResolveConfiguration(selected, base)
		assert.JSONEq(t, `{"from":"selected"}`, string(got.Configuration))
	})

	t.Run("empty selection falls back to base", func(t *testing.T) {
		got := ResolveConfiguration(Selected{Configuration: json.RawMessage(`{"from":"selected"}`)}, base)
		assert.JSONEq(t, `{"from":"base"}`, string(got.Configuration))
	})
}

func TestActionKeys(t *testing.T) {
	assert.Equal(t, "EVENTS_PROCESSING_ACTION_STOP", ActionSucceededKey(ActionStop))
	assert.Equal(t, "EVENTS_PROCESSING_ACTION_NOT_RETRY", ActionFailedKey(ActionRetry))
}
