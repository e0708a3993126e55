package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mastercactapus/stagectl/stage"
)

// wsHub tracks WebSocket clients, dispatches their toggle requests
// to the controller, and broadcasts indicator changes back out.
type wsHub struct {
	ctrl     *stage.Controller
	upgrader websocket.Upgrader

	mx    sync.Mutex
	conns map[*websocket.Conn]bool
}

type statusMessage struct {
	Status string `json:"status"`
}

func newWSHub(ctrl *stage.Controller) *wsHub {
	return &wsHub{
		ctrl: ctrl,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

func (h *wsHub) serve(w http.ResponseWriter, req *http.Request) {
	ws, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Println("ERROR: upgrade:", err)
		return
	}

	h.mx.Lock()
	h.conns[ws] = true
	h.mx.Unlock()
	log.Println("websocket client connected:", ws.RemoteAddr())

	go h.readLoop(ws)
}

func (h *wsHub) readLoop(ws *websocket.Conn) {
	defer func() {
		h.mx.Lock()
		delete(h.conns, ws)
		h.mx.Unlock()
		ws.Close()
		log.Println("websocket client disconnected:", ws.RemoteAddr())
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		h.handleMessage(data)
	}
}

// handleMessage applies an inbound client message. Anything other
// than a well-formed toggle request is logged and dropped; the
// controller never sees it.
func (h *wsHub) handleMessage(data []byte) {
	var msg map[string]json.RawMessage
	err := json.Unmarshal(data, &msg)
	if err != nil {
		log.Println("ERROR: parse:", err)
		return
	}
	if msg["action"] == nil {
		return
	}

	var action string
	err = json.Unmarshal(msg["action"], &action)
	if err != nil {
		log.Println("ERROR: parse action:", err)
		return
	}
	if action == "toggle" {
		h.ctrl.Toggle()
	}
}

// broadcastStatus sends the indicator state to every client. Clients
// that fail the write are dropped.
func (h *wsHub) broadcastStatus(on bool) {
	msg := statusMessage{Status: "off"}
	if on {
		msg.Status = "on"
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Println("ERROR: marshal status:", err)
		return
	}

	h.mx.Lock()
	defer h.mx.Unlock()
	for ws := range h.conns {
		err = ws.WriteMessage(websocket.TextMessage, data)
		if err != nil {
			log.Println("ERROR: send:", err)
			ws.Close()
			delete(h.conns, ws)
		}
	}
}
