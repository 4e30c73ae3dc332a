package utility

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Simple hub holding the lab-feed connections: Map[ClientID] -> Connection
var (
	FeedClients   = make(map[string]*websocket.Conn)
	FeedClientsMu sync.Mutex // Mutex to prevent race conditions
	Upgrader      = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// Allow CORS for development
		CheckOrigin: func(r *http.Request) bool { return true },
	}
)

// FeedEvent is pushed to every connected client when a generation completes.
type FeedEvent struct {
	Experiment string    `json:"experiment"`
	SessionID  string    `json:"session_id"`
	Source     string    `json:"source"` // "model" or "fallback"
	Timestamp  time.Time `json:"timestamp"`
}

// RegisterFeedClient adds a new lab-feed connection.
func RegisterFeedClient(clientID string, conn *websocket.Conn) {
	FeedClientsMu.Lock()
	defer FeedClientsMu.Unlock()
	FeedClients[clientID] = conn
	log.Info().Str("client_id", clientID).Msg("Lab feed client connected")
}

// UnregisterFeedClient removes a connection (when the client closes the tab).
func UnregisterFeedClient(clientID string) {
	FeedClientsMu.Lock()
	defer FeedClientsMu.Unlock()
	if _, ok := FeedClients[clientID]; ok {
		delete(FeedClients, clientID)
		log.Info().Str("client_id", clientID).Msg("Lab feed client disconnected")
	}
}

// BroadcastGeneration notifies every connected client that an experiment
// finished a run. Dead connections are dropped on write failure.
func BroadcastGeneration(experiment, sessionID, source string) {
	event := FeedEvent{
		Experiment: experiment,
		SessionID:  sessionID,
		Source:     source,
		Timestamp:  time.Now(),
	}

	msg, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal feed event")
		return
	}

	FeedClientsMu.Lock()
	defer FeedClientsMu.Unlock()

	for id, conn := range FeedClients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Error().Err(err).Msg("Failed to send feed event, removing client")
			conn.Close()
			delete(FeedClients, id)
		}
	}
}
