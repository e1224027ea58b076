package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3001"
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := fmt.Sprintf("127.0.0.1:%s", port)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+base+"/ws", nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readFrame := func(timeout time.Duration) map[string]any {
		conn.SetReadDeadline(time.Now().Add(timeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read: %v", err)
		}
		var obj map[string]any
		if err := json.Unmarshal(msg, &obj); err != nil {
			log.Fatalf("decode %s: %v", msg, err)
		}
		return obj
	}

	if f := readFrame(2 * time.Second); f["type"] != "ready" {
		log.Fatalf("expected ready frame, got %v", f)
	}

	title := fmt.Sprintf("smoke %d", time.Now().UnixNano())
	body, _ := json.Marshal(map[string]string{"title": title})
	res, err := http.Post("http://"+base+"/api/todos", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("create todo: %v", err)
	}
	var created struct {
		ID string `json:"id"`
	}
	_ = json.NewDecoder(res.Body).Decode(&created)
	res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		log.Fatalf("create todo: status %d", res.StatusCode)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		f := readFrame(time.Until(deadline))
		if f["type"] == "todo.created" && f["id"] == created.ID {
			log.Printf("got todo.created id=%s", created.ID)
			break
		}
	}

	req, _ := http.NewRequest(http.MethodDelete, "http://"+base+"/api/todos/"+created.ID, nil)
	if res, err := http.DefaultClient.Do(req); err == nil {
		res.Body.Close()
	}

	log.Println("smoke test finished")
}
