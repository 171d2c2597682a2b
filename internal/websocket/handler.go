package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches a proctor console connection to the hub.
func ServeWs(hub *Hub, c *websocket.Conn, proctorID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, ProctorID: proctorID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
