package ws

const (
	// server - client
	MsgReady = "ready"

	// client - server
	MsgPing = "ping"
	MsgPong = "pong"
)
