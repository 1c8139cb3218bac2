package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WatchHub fans commit notifications out to websocket subscribers: a
// client watching a game receives {"version": n} after every commit
// and re-fetches state when its cached copy is older.
type WatchHub struct {
	lock        sync.Mutex
	subscribers map[string]map[*websocket.Conn]struct{}
}

// NewWatchHub creates a new WatchHub.
func NewWatchHub() *WatchHub {
	return &WatchHub{
		subscribers: make(map[string]map[*websocket.Conn]struct{}),
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWatch upgrades the request and registers the connection on
// the game's change feed.
func (h *WatchHub) HandleWatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := mux.Vars(r)["gameID"]
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.Errorf("failed to upgrade to websocket: %v", err)
			return
		}
		h.add(gameID, conn)
		logrus.WithField("game", gameID).Debug("watch subscriber connected")
		go h.drain(gameID, conn)
	}
}

// Publish notifies every subscriber of the game's new version. Dead
// connections are dropped.
func (h *WatchHub) Publish(gameID string, version int64) {
	h.lock.Lock()
	defer h.lock.Unlock()
	for conn := range h.subscribers[gameID] {
		if err := conn.WriteJSON(map[string]int64{"version": version}); err != nil {
			logrus.Debugf("dropping watch subscriber for %s: %v", gameID, err)
			conn.Close()
			delete(h.subscribers[gameID], conn)
		}
	}
}

func (h *WatchHub) add(gameID string, conn *websocket.Conn) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.subscribers[gameID] == nil {
		h.subscribers[gameID] = make(map[*websocket.Conn]struct{})
	}
	h.subscribers[gameID][conn] = struct{}{}
}

// drain discards inbound messages and unregisters on close.
func (h *WatchHub) drain(gameID string, conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.lock.Lock()
	defer h.lock.Unlock()
	conn.Close()
	delete(h.subscribers[gameID], conn)
}
