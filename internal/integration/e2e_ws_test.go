package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"todo_webapp/internal/db"
	"todo_webapp/internal/events"
	httpserver "todo_webapp/internal/http"
	"todo_webapp/internal/repository"
	"todo_webapp/internal/service"
	"todo_webapp/internal/ws"
)

type instance struct {
	srv *httptest.Server
	hub *ws.Hub
}

// startInstance runs one app instance sharing the store and the redis channel.
func startInstance(t *testing.T, ctx context.Context, repo repository.TodoRepository, redisAddr, channel string) *instance {
	t.Helper()

	rdb, err := events.NewRedisClient(redisAddr, os.Getenv("REDIS_PASSWORD"), 0)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	hub := ws.NewHub()
	broker := events.NewRedisBroker(rdb, channel, hub)
	ready := make(chan struct{})
	go broker.Run(ctx, ready)
	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber not ready")
	}

	svc := service.NewTodoService(repo, broker)
	srv := httptest.NewServer(httpserver.NewEngine(httpserver.Options{Todos: svc, Hub: hub}))
	t.Cleanup(func() {
		srv.Close()
		hub.Close()
	})
	return &instance{srv: srv, hub: hub}
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(msg, &obj); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return obj
}

func TestE2E_WS_CrossInstanceEvents(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	redisAddr := os.Getenv("REDIS_ADDR")
	if dsn == "" || redisAddr == "" {
		t.Skip("DATABASE_URL or REDIS_ADDR not set")
	}
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer pool.Close()
	if _, err := pool.Exec(ctx, "TRUNCATE todos RESTART IDENTITY"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	repo := repository.NewPgTodoRepository(pool)

	channel := "todos:events:test:" + time.Now().Format("150405.000000")
	a := startInstance(t, ctx, repo, redisAddr, channel)
	b := startInstance(t, ctx, repo, redisAddr, channel)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(b.srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if f := readFrame(t, conn); f["type"] != ws.MsgReady {
		t.Fatalf("first frame = %v", f)
	}

	res, err := http.Post(a.srv.URL+"/api/todos", "application/json", bytes.NewBufferString(`{"title":"from A"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	var created struct {
		ID string `json:"id"`
	}
	_ = json.NewDecoder(res.Body).Decode(&created)
	res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("post status = %d", res.StatusCode)
	}

	f := readFrame(t, conn)
	if f["type"] != events.TypeCreated || f["id"] != created.ID {
		t.Fatalf("frame = %v", f)
	}

	// The other instance reads the same store.
	res, err = http.Get(b.srv.URL + "/api/todos/" + created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get via B = %d", res.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, a.srv.URL+"/api/todos/"+created.ID, nil)
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	res.Body.Close()

	f = readFrame(t, conn)
	if f["type"] != events.TypeDeleted || f["id"] != created.ID {
		t.Fatalf("frame = %v", f)
	}
	if _, ok := f["todo"]; ok {
		t.Fatalf("deleted frame carries todo: %v", f)
	}
}
