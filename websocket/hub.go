package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"

	"github.com/studyhive/study_hive/models"
)

const (
	EventSessionSubmitted = "session.submitted"
	EventSessionApproved  = "session.approved"
	EventSessionRejected  = "session.rejected"
)

type Client struct {
	Email string
	Role  string
	Conn  *websocket.Conn
}

// SessionEvent is pushed to connected clients when a session moves
// through the review workflow: submissions fan out to admins, decisions
// go to the owning tutor.
type SessionEvent struct {
	Type       string `json:"type"`
	SessionID  string `json:"sessionId"`
	Title      string `json:"title"`
	TutorEmail string `json:"tutorEmail"`
	Status     string `json:"status,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

var clients = make(map[string]*Client)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *SessionEvent)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.Email)
			clientsMu.Lock()
			clients[client.Email] = client
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.Email)
			clientsMu.Lock()
			if existing, ok := clients[client.Email]; ok && existing.Conn == client.Conn {
				delete(clients, client.Email)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			for _, client := range recipientsFor(event) {
				if err := client.Conn.WriteJSON(event); err != nil {
					log.Printf("Error sending event to client %s: %v", client.Email, err)
					client.Conn.Close()
					clientsMu.Lock()
					delete(clients, client.Email)
					clientsMu.Unlock()
				}
			}
		}
	}
}

func recipientsFor(event *SessionEvent) []*Client {
	clientsMu.RLock()
	defer clientsMu.RUnlock()

	var recipients []*Client
	if event.Type == EventSessionSubmitted {
		for _, client := range clients {
			if client.Role == models.RoleAdmin {
				recipients = append(recipients, client)
			}
		}
		return recipients
	}

	if client, ok := clients[event.TutorEmail]; ok {
		recipients = append(recipients, client)
	}
	return recipients
}

// Notify hands an event to the hub without blocking the caller when no
// hub goroutine is draining the channel.
func Notify(event *SessionEvent) {
	select {
	case Broadcast <- event:
	default:
		log.Printf("Dropping %s event for %s: hub not draining", event.Type, event.TutorEmail)
	}
}
