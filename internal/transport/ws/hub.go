package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Manager-facing message types
const (
	MsgSessionStarted   MessageType = "session_started"
	MsgQuestionAnswered MessageType = "question_answered"
	MsgProgressSaved    MessageType = "progress_saved"
	MsgSubmissionOpened MessageType = "submission_opened"
	MsgSessionCompleted MessageType = "session_completed"
)

// Staff-facing message types
const (
	MsgProgressRecovered MessageType = "progress_recovered"
	MsgSessionError      MessageType = "session_error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections per assignment: any number of
// managers watching live progress, and the one staff member taking the
// induction. It implements session.Broadcaster.
type Hub struct {
	managerConns map[string]map[*Connection]bool // assignmentID -> watchers
	staffConns   map[string]*Connection          // assignmentID -> active session conn

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one WebSocket connection
type Connection struct {
	AssignmentID string
	UserID       string
	IsManager    bool
	Send         chan []byte
	Hub          *Hub
}

// BroadcastMessage is a message to deliver
type BroadcastMessage struct {
	AssignmentID string
	ToManagers   bool
	Message      *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		managerConns: make(map[string]map[*Connection]bool),
		staffConns:   make(map[string]*Connection),
		register:     make(chan *Connection),
		unregister:   make(chan *Connection),
		broadcast:    make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsManager {
				if h.managerConns[conn.AssignmentID] == nil {
					h.managerConns[conn.AssignmentID] = make(map[*Connection]bool)
				}
				h.managerConns[conn.AssignmentID][conn] = true
				log.Printf("Manager %s watching assignment %s", conn.UserID, conn.AssignmentID)
			} else {
				h.staffConns[conn.AssignmentID] = conn
				log.Printf("Staff %s connected for assignment %s", conn.UserID, conn.AssignmentID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsManager {
				if watchers, ok := h.managerConns[conn.AssignmentID]; ok && watchers[conn] {
					delete(watchers, conn)
					close(conn.Send)
					if len(watchers) == 0 {
						delete(h.managerConns, conn.AssignmentID)
					}
					log.Printf("Manager %s stopped watching assignment %s", conn.UserID, conn.AssignmentID)
				}
			} else {
				if existing, ok := h.staffConns[conn.AssignmentID]; ok && existing == conn {
					delete(h.staffConns, conn.AssignmentID)
					close(conn.Send)
					log.Printf("Staff %s disconnected from assignment %s", conn.UserID, conn.AssignmentID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.ToManagers {
				for conn := range h.managerConns[msg.AssignmentID] {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			} else {
				if conn, ok := h.staffConns[msg.AssignmentID]; ok {
					select {
					case conn.Send <- data:
					default:
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToManagers sends an event to everyone watching an assignment
// (implements session.Broadcaster)
func (h *Hub) BroadcastToManagers(assignmentID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		AssignmentID: assignmentID,
		ToManagers:   true,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToStaff sends an event to the staff member taking the
// assignment (implements session.Broadcaster)
func (h *Hub) BroadcastToStaff(assignmentID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		AssignmentID: assignmentID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
