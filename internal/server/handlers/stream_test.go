package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dequeuesync/pkg/api"
)

type hubFixture struct {
	hub *Hub
}

func newHubFixture(t *testing.T, batchSize int) *hubFixture {
	t.Helper()
	return &hubFixture{
		hub: NewHub(setupTestLogger(), setupStorage(t), HubConfig{BatchSize: batchSize, WriteTimeout: time.Second}),
	}
}

// dial открывает соединение от имени устройства
func (f *hubFixture) dial(t *testing.T, userID, deviceID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(withIdentity(userID, deviceID, f.hub.ServeHTTP))
	t.Cleanup(srv.Close)
	t.Cleanup(f.hub.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// ждем регистрации соединения
	require.Eventually(t, func() bool { return f.hub.Connections(userID) > 0 }, time.Second, 5*time.Millisecond)
	return conn
}

func writeMsg(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

func readMsg(t *testing.T, conn *websocket.Conn) any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, err := api.DecodeStreamMessage(data)
	require.NoError(t, err)
	return msg
}

func readAs[T any](t *testing.T, conn *websocket.Conn) *T {
	t.Helper()
	msg := readMsg(t, conn)
	typed, ok := msg.(*T)
	require.Truef(t, ok, "unexpected message %T", msg)
	return typed
}

func streamRequest(since string) api.StreamRequest {
	req := api.StreamRequest{Type: api.MsgStreamRequest}
	if since != "" {
		req.Since = &since
	}
	return req
}

func TestHub_StreamEmptyLog(t *testing.T) {
	f := newHubFixture(t, 10)
	conn := f.dial(t, "alice", "phone")

	writeMsg(t, conn, streamRequest(""))

	assert.Equal(t, 0, readAs[api.StreamStart](t, conn).TotalEvents)
	batch := readAs[api.StreamBatch](t, conn)
	assert.Equal(t, 0, batch.BatchIndex)
	assert.True(t, batch.IsLast)
	assert.Empty(t, batch.Events)
	done := readAs[api.StreamComplete](t, conn)
	assert.Equal(t, "", done.NewCheckpoint)
	assert.Equal(t, 0, done.ProcessedEvents)
}

func TestHub_EventsNotifyOtherDevices(t *testing.T) {
	f := newHubFixture(t, 2)
	phone := f.dial(t, "alice", "phone")
	laptop := f.dial(t, "alice", "laptop")
	bob := f.dial(t, "bob", "tablet")

	var events []api.Event
	for i, id := range []string{"e1", "e2", "e3", "e4", "e5"} {
		events = append(events, wireEvent(id, base.Add(time.Duration(i)*time.Second)))
	}
	writeMsg(t, phone, api.EventsMessage{Type: api.MsgEvents, Events: events})

	notify := readAs[api.Notify](t, laptop)
	assert.Equal(t, "phone", notify.DeviceID)
	assert.Equal(t, 5, notify.Count)

	// источник не получает notify: первым приходит ответ на его запрос
	writeMsg(t, phone, streamRequest(""))
	start := readAs[api.StreamStart](t, phone)
	assert.Equal(t, 5, start.TotalEvents)

	var got []string
	for index := 0; index < 3; index++ {
		batch := readAs[api.StreamBatch](t, phone)
		assert.Equal(t, index, batch.BatchIndex)
		assert.Equal(t, index == 2, batch.IsLast)
		for _, e := range batch.Events {
			got = append(got, e.ID)
			assert.Equal(t, "phone", e.DeviceID)
		}
	}
	assert.Equal(t, []string{"e1", "e2", "e3", "e4", "e5"}, got)

	done := readAs[api.StreamComplete](t, phone)
	assert.Equal(t, 5, done.ProcessedEvents)
	require.NotEmpty(t, done.NewCheckpoint)

	// с нового checkpoint событий нет, checkpoint не меняется
	writeMsg(t, laptop, streamRequest(done.NewCheckpoint))
	assert.Equal(t, 0, readAs[api.StreamStart](t, laptop).TotalEvents)
	assert.True(t, readAs[api.StreamBatch](t, laptop).IsLast)
	assert.Equal(t, done.NewCheckpoint, readAs[api.StreamComplete](t, laptop).NewCheckpoint)

	// у другого пользователя журнал пуст, уведомлений не было
	writeMsg(t, bob, streamRequest(""))
	assert.Equal(t, 0, readAs[api.StreamStart](t, bob).TotalEvents)
}

func TestHub_DuplicateEventsDoNotNotify(t *testing.T) {
	f := newHubFixture(t, 10)
	phone := f.dial(t, "alice", "phone")
	laptop := f.dial(t, "alice", "laptop")

	event := wireEvent("e1", base)
	writeMsg(t, phone, api.EventsMessage{Type: api.MsgEvents, Events: []api.Event{event}})
	assert.Equal(t, 1, readAs[api.Notify](t, laptop).Count)

	writeMsg(t, phone, api.EventsMessage{Type: api.MsgEvents, Events: []api.Event{event}})
	writeMsg(t, laptop, streamRequest(""))
	// повтор не создал notify: сразу ответ на запрос
	assert.Equal(t, 1, readAs[api.StreamStart](t, laptop).TotalEvents)
}

func TestHub_Errors(t *testing.T) {
	f := newHubFixture(t, 10)
	conn := f.dial(t, "alice", "phone")

	writeMsg(t, conn, streamRequest("not-a-cursor"))
	streamErr := readAs[api.StreamError](t, conn)
	require.NotNil(t, streamErr.Code)
	assert.Equal(t, codeInvalidCursor, *streamErr.Code)

	invalid := wireEvent("e1", base)
	invalid.Payload = json.RawMessage(`{}`)
	invalid.Type = "task"
	writeMsg(t, conn, api.EventsMessage{Type: api.MsgEvents, Events: []api.Event{invalid}})
	streamErr = readAs[api.StreamError](t, conn)
	assert.Equal(t, codeInvalidEvents, *streamErr.Code)

	writeMsg(t, conn, api.Notify{Type: api.MsgNotify})
	streamErr = readAs[api.StreamError](t, conn)
	assert.Equal(t, codeUnsupported, *streamErr.Code)

	// соединение остается рабочим после ошибок
	writeMsg(t, conn, streamRequest(""))
	assert.Equal(t, 0, readAs[api.StreamStart](t, conn).TotalEvents)
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	f := newHubFixture(t, 10)
	conn := f.dial(t, "alice", "phone")
	require.Equal(t, 1, f.hub.Connections("alice"))

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	_ = conn.Close()

	assert.Eventually(t, func() bool { return f.hub.Connections("alice") == 0 }, time.Second, 5*time.Millisecond)
	// notify без соединений ничего не ломает
	f.hub.NotifyUser("alice", "laptop", 1)
}
