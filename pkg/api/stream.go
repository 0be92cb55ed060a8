package api

import "encoding/json"

// StreamMessageType тег сообщения в websocket канале
type StreamMessageType string

const (
	// client -> server
	MsgEvents        StreamMessageType = "sync.events"
	MsgStreamRequest StreamMessageType = "sync.stream.request"

	// server -> client
	MsgStreamStart    StreamMessageType = "sync.stream.start"
	MsgStreamBatch    StreamMessageType = "sync.stream.batch"
	MsgStreamComplete StreamMessageType = "sync.stream.complete"
	MsgStreamError    StreamMessageType = "sync.stream.error"
	MsgNotify         StreamMessageType = "sync.notify"
)

// коды sync.stream.error
const (
	ErrCodeInvalidCursor = "invalid_cursor"
	ErrCodeInvalidEvents = "invalid_events" // ответ на sync.events, не на pull
	ErrCodeInternal      = "internal"
	ErrCodeUnsupported   = "unsupported"
)

// StreamEnvelope читается первым, чтобы определить тип сообщения.
// Остальные поля декодируются в конкретную структуру по Type.
type StreamEnvelope struct {
	Type StreamMessageType `json:"type"`
}

// EventsMessage fire-and-forget push через stream
type EventsMessage struct {
	Type   StreamMessageType `json:"type"`
	Events []Event           `json:"events"`
}

// StreamRequest запрос потокового pull
type StreamRequest struct {
	Since *string           `json:"since,omitempty"`
	Type  StreamMessageType `json:"type"`
}

// StreamStart начало потока
type StreamStart struct {
	Type        StreamMessageType `json:"type"`
	TotalEvents int               `json:"totalEvents"`
}

// StreamBatch очередная пачка событий
type StreamBatch struct {
	Type       StreamMessageType `json:"type"`
	Events     []Event           `json:"events"`
	BatchIndex int               `json:"batchIndex"`
	IsLast     bool              `json:"isLast"`
}

// StreamComplete поток успешно завершен
type StreamComplete struct {
	Type            StreamMessageType `json:"type"`
	NewCheckpoint   string            `json:"newCheckpoint"`
	ProcessedEvents int               `json:"processedEvents"`
}

// StreamError поток прерван сервером
type StreamError struct {
	Code  *string           `json:"code,omitempty"`
	Type  StreamMessageType `json:"type"`
	Error string            `json:"error"`
}

// Notify сообщает, что на сервере появились новые события
type Notify struct {
	Type     StreamMessageType `json:"type"`
	DeviceID string            `json:"device_id"` // устройство-источник
	Count    int               `json:"count"`
}

// DecodeStreamMessage разбирает сообщение и возвращает типизированную структуру.
func DecodeStreamMessage(data []byte) (any, error) {
	var env StreamEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	var msg any
	switch env.Type {
	case MsgEvents:
		msg = &EventsMessage{}
	case MsgStreamRequest:
		msg = &StreamRequest{}
	case MsgStreamStart:
		msg = &StreamStart{}
	case MsgStreamBatch:
		msg = &StreamBatch{}
	case MsgStreamComplete:
		msg = &StreamComplete{}
	case MsgStreamError:
		msg = &StreamError{}
	case MsgNotify:
		msg = &Notify{}
	default:
		return nil, &UnknownMessageError{Type: env.Type}
	}

	if err := json.Unmarshal(data, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// UnknownMessageError неизвестный тип сообщения
type UnknownMessageError struct {
	Type StreamMessageType
}

func (e *UnknownMessageError) Error() string {
	return "unknown stream message type " + string(e.Type)
}
