package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	appEventDetails "github.com/execution-hub/event-console/internal/application/eventdetails"
	"github.com/execution-hub/event-console/internal/application/eventdetails/mocks"
	appNotification "github.com/execution-hub/event-console/internal/application/notification"
	"github.com/execution-hub/event-console/internal/domain/eventdetails"
	"github.com/execution-hub/event-console/internal/domain/notification"
	"github.com/execution-hub/event-console/internal/domain/workflow"
	workflowMocks "github.com/execution-hub/event-console/internal/domain/workflow/mocks"
	"github.com/execution-hub/event-console/internal/infrastructure/adminapi"
	"github.com/execution-hub/event-console/internal/infrastructure/memstore"
	"github.com/execution-hub/event-console/internal/infrastructure/sse"
)

type testEnv struct {
	api     *mocks.MockAdminAPI
	catalog *workflowMocks.MockCatalog
	history *memstore.NotificationRepository
	server  *Server
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	ctrl := gomock.NewController(t)
	env := &testEnv{
		api:     mocks.NewMockAdminAPI(ctrl),
		catalog: workflowMocks.NewMockCatalog(ctrl),
		history: memstore.NewNotificationRepository(100),
	}
	hub := sse.NewHub()
	t.Cleanup(hub.Stop)

	store := memstore.New()
	notificationSvc := appNotification.NewService(env.history, hub, zerolog.Nop())
	store.Subscribe(notificationSvc.BroadcastTransition)
	eventSvc := appEventDetails.NewService(env.api, env.catalog, store, notificationSvc, zerolog.Nop())

	env.server = NewServer(eventSvc, notificationSvc, zerolog.Nop())
	env.handler = env.server.Router()
	return env
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func respondWith(body string) func(context.Context, string, any) error {
	return func(_ context.Context, _ string, out any) error {
		return json.Unmarshal([]byte(body), out)
	}
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) eventdetails.State {
	t.Helper()
	var st eventdetails.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	return st
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","sse_clients":0}`, rec.Body.String())
}

func TestGetEventState(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/v1/events/e1/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeState(t, rec)
	assert.Equal(t, "e1", st.EventID)
	assert.Equal(t, eventdetails.PhaseIdle, st.WorkflowPhase)
}

func TestAccessRoutes(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.EXPECT().Get(gomock.Any(), "event/e1/access.json", gomock.Any()).
			DoAndReturn(respondWith(`{"episode_access":{"acl":"{\"acl\":{\"ace\":[{\"role\":\"ROLE_A\",\"action\":\"write\",\"allow\":true}]}}"}}`))

		rec := env.do(t, http.MethodGet, "/v1/events/e1/access", "")
		require.Equal(t, http.StatusOK, rec.Code)
		st := decodeState(t, rec)
		require.Len(t, st.Policies, 1)
		assert.True(t, st.Policies[0].Write)
	})

	t.Run("get upstream failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.EXPECT().Get(gomock.Any(), "event/e1/access.json", gomock.Any()).
			Return(&adminapi.APIError{Method: http.MethodGet, Path: "event/e1/access.json", Status: 500})

		rec := env.do(t, http.MethodGet, "/v1/events/e1/access", "")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, eventdetails.StatusFailed, decodeState(t, rec).PoliciesStatus)
	})

	t.Run("save records a notification", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.EXPECT().PostForm(gomock.Any(), "event/e1/access", gomock.Any()).Return(nil)

		rec := env.do(t, http.MethodPut, "/v1/events/e1/access",
			`{"policies":[{"role":"ROLE_A","read":true,"write":false,"actions":[]}]}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var out appEventDetails.Outcome
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.True(t, out.OK)
		require.Len(t, out.Notifications, 1)

		stored, err := env.history.List(context.Background(), notification.Filter{}, 10, 0)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, notification.KeyACLSaved, stored[0].Key)
	})

	t.Run("save rejects unknown fields", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPut, "/v1/events/e1/access", `{"acl":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("active transaction", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.EXPECT().Get(gomock.Any(), "event/e1/hasActiveTransaction", gomock.Any()).DoAndReturn(respondWith(`false`))

		rec := env.do(t, http.MethodGet, "/v1/events/e1/active-transaction", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"hasActiveTransactions":false}`, rec.Body.String())
	})
}

func TestCommentRoutes(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.EXPECT().Get(gomock.Any(), "event/e1/comments", gomock.Any()).DoAndReturn(respondWith(`[{"id":1,"text":"hi"}]`))
		env.api.EXPECT().Get(gomock.Any(), "resources/components.json", gomock.Any()).
			DoAndReturn(respondWith(`{"eventCommentReasons":{"EVENTS.COMMENTS.REASONS.CUTTING":"cutting"}}`))

		rec := env.do(t, http.MethodGet, "/v1/events/e1/comments", "")
		require.Equal(t, http.StatusOK, rec.Code)
		st := decodeState(t, rec)
		assert.Len(t, st.Comments, 1)
		assert.Equal(t, eventdetails.StatusSucceeded, st.CommentsStatus)
	})

	t.Run("create", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.EXPECT().PostForm(gomock.Any(), "event/e1/comment", url.Values{"text": {"hi"}, "reason": {"cutting"}}).Return(nil)

		rec := env.do(t, http.MethodPost, "/v1/events/e1/comments", `{"text":"hi","reason":"cutting"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("create requires text", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/v1/events/e1/comments", `{"reason":"cutting"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.EXPECT().Delete(gomock.Any(), "event/e1/comment/7").Return(nil)

		rec := env.do(t, http.MethodDelete, "/v1/events/e1/comments/7", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("reply", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.EXPECT().PostForm(gomock.Any(), "event/e1/comment/7/reply", url.Values{"text": {"ok"}, "resolved": {"true"}}).Return(nil)

		rec := env.do(t, http.MethodPost, "/v1/events/e1/comments/7/replies", `{"text":"ok","resolved":true}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("delete reply upstream failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.EXPECT().Delete(gomock.Any(), "event/e1/comment/7/9").Return(&adminapi.APIError{Status: 404})

		rec := env.do(t, http.MethodDelete, "/v1/events/e1/comments/7/replies/9", "")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "UPSTREAM_ERROR")
	})
}

func TestWorkflowRoutes(t *testing.T) {
	defs := []workflow.Definition{
		{ID: "fast", Title: "Fast", Description: "Fast workflow", Configuration: json.RawMessage(`{"a":"true"}`)},
	}
	load := func(t *testing.T, env *testEnv) {
		t.Helper()
		env.api.EXPECT().Get(gomock.Any(), "event/e1/workflows.json", gomock.Any()).
			DoAndReturn(respondWith(`{"workflowId":"","description":"","configuration":{}}`))
		env.catalog.EXPECT().ListDefinitions(gomock.Any(), workflow.DefinitionsContext).Return(defs, nil)

		rec := env.do(t, http.MethodGet, "/v1/events/e1/workflows", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, eventdetails.PhaseConfigurableLoaded, decodeState(t, rec).WorkflowPhase)
	}

	t.Run("select", func(t *testing.T) {
		env := newTestEnv(t)
		load(t, env)

		rec := env.do(t, http.MethodPut, "/v1/events/e1/workflows/selection", `{"workflowId":"fast"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		st := decodeState(t, rec)
		assert.Equal(t, "fast", st.SelectedWorkflow().WorkflowID)
		assert.Equal(t, eventdetails.PhaseConfigurationResolved, st.WorkflowPhase)
	})

	t.Run("select unknown", func(t *testing.T) {
		env := newTestEnv(t)
		load(t, env)

		rec := env.do(t, http.MethodPut, "/v1/events/e1/workflows/selection", `{"workflowId":"nope"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "UNKNOWN_WORKFLOW")
	})

	t.Run("select after instances refetch", func(t *testing.T) {
		env := newTestEnv(t)
		load(t, env)
		env.api.EXPECT().Get(gomock.Any(), "event/e1/workflows.json", gomock.Any()).
			DoAndReturn(respondWith(`{"results":[{"id":11,"status":"RUNNING"}]}`))
		rec := env.do(t, http.MethodGet, "/v1/events/e1/workflows", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decodeState(t, rec).WorkflowDefinitions)

		rec = env.do(t, http.MethodPut, "/v1/events/e1/workflows/selection", `{"workflowId":"fast"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "NOT_CONFIGURABLE")
	})

	t.Run("select and save", func(t *testing.T) {
		env := newTestEnv(t)
		load(t, env)

		rec := env.do(t, http.MethodPut, "/v1/events/e1/workflows/selection", `{"workflowId":"fast","save":true}`)
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})

	t.Run("action runs in the background", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.EXPECT().Put(gomock.Any(), "event/e1/workflows/42/action/RETRY", "application/json;charset=utf-8",
			url.Values{"action": {"RETRY"}, "id": {"e1"}, "wfId": {"42"}}).Return(nil)

		rec := env.do(t, http.MethodPost, "/v1/events/e1/workflows/42/actions/RETRY", "")
		assert.Equal(t, http.StatusAccepted, rec.Code)

		env.server.Wait()
		stored, err := env.history.List(context.Background(), notification.Filter{}, 10, 0)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "EVENTS_PROCESSING_ACTION_RETRY", stored[0].Key)

		rec = env.do(t, http.MethodGet, "/v1/events/e1/state", "")
		assert.Equal(t, eventdetails.PhaseActionSucceeded, decodeState(t, rec).WorkflowPhase)
	})
}

func TestListNotifications(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.history.Create(ctx, notification.NewNotification("e1", notification.TypeInfo, "A")))
	require.NoError(t, env.history.Create(ctx, notification.NewNotification("e2", notification.TypeError, "B")))

	rec := env.do(t, http.MethodGet, "/v1/notifications?event_id=e2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Notifications []notification.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, "B", body.Notifications[0].Key)

	rec = env.do(t, http.MethodGet, "/v1/notifications?since=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSSEEndpoint(t *testing.T) {
	t.Run("requires client id", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodGet, "/v1/notifications/sse", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("streams transitions", func(t *testing.T) {
		env := newTestEnv(t)
		srv := httptest.NewServer(env.handler)
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/notifications/sse?client_id=c1&events=e1", nil)
		require.NoError(t, err)
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

		reader := bufio.NewReader(resp.Body)
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		assert.Equal(t, ": connected\n", line)

		env.api.EXPECT().PostForm(gomock.Any(), "event/e1/comment", gomock.Any()).Return(nil)
		env.do(t, http.MethodPost, "/v1/events/e1/comments", `{"text":"x"}`)

		var events []string
		for len(events) < 2 {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "event: ") {
				events = append(events, strings.TrimSpace(strings.TrimPrefix(line, "event: ")))
			}
		}
		assert.Equal(t, []string{notification.SSEEventTransition, notification.SSEEventTransition}, events)
	})

	t.Run("reconnect keeps the newer stream", func(t *testing.T) {
		env := newTestEnv(t)
		srv := httptest.NewServer(env.handler)
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		open := func() (*http.Response, *bufio.Reader) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/notifications/sse?client_id=c1", nil)
			require.NoError(t, err)
			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			reader := bufio.NewReader(resp.Body)
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			require.Equal(t, ": connected\n", line)
			return resp, reader
		}

		first, firstReader := open()
		defer first.Body.Close()
		second, secondReader := open()
		defer second.Body.Close()

		// the replaced stream ends once its channel is closed
		_, err := io.ReadAll(firstReader)
		require.NoError(t, err)

		rec := env.do(t, http.MethodGet, "/healthz", "")
		assert.JSONEq(t, `{"status":"ok","sse_clients":1}`, rec.Body.String())

		env.api.EXPECT().PostForm(gomock.Any(), "event/e1/comment", gomock.Any()).Return(nil)
		env.do(t, http.MethodPost, "/v1/events/e1/comments", `{"text":"x"}`)

		for {
			line, err := secondReader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "event: ") {
				assert.Equal(t, "event: "+notification.SSEEventTransition+"\n", line)
				break
			}
		}
	})
}
