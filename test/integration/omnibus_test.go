package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/omnibuslines/booking/internal/adapters/rabbit"
	redisadapter "github.com/omnibuslines/booking/internal/adapters/redis"
	"github.com/omnibuslines/booking/internal/admin"
	"github.com/omnibuslines/booking/internal/catalog"
	"github.com/omnibuslines/booking/internal/config"
	"github.com/omnibuslines/booking/internal/events"
	"github.com/omnibuslines/booking/internal/flow"
	httphandler "github.com/omnibuslines/booking/internal/http"
	"github.com/omnibuslines/booking/internal/idempotency"
	"github.com/omnibuslines/booking/internal/insight"
	"github.com/omnibuslines/booking/internal/observability"
	"github.com/omnibuslines/booking/internal/rateLimit"
	"github.com/omnibuslines/booking/internal/store"
	"github.com/omnibuslines/booking/internal/ticket"
	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestIntegration_BookingFlow(t *testing.T) {
	ctx := context.Background()

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForExec([]string{"redis-cli", "ping"}),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer redisContainer.Terminate(ctx)

	rabbitContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.13-management",
			ExposedPorts: []string{"5672/tcp", "15672/tcp"},
			WaitingFor:   wait.ForHTTP("/api/health").WithPort("15672"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer rabbitContainer.Terminate(ctx)

	redisHost, err := redisContainer.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatal(err)
	}
	rabbitHost, err := rabbitContainer.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	rabbitPort, err := rabbitContainer.MappedPort(ctx, "5672")
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		RedisAddr:       redisHost + ":" + redisPort.Port(),
		RabbitURL:       "amqp://guest:guest@" + rabbitHost + ":" + rabbitPort.Port() + "/",
		InsightDebounce: 10 * time.Millisecond,
		PaymentDelay:    10 * time.Millisecond,
	}

	logger := observability.NewLogger()

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	blob := redisadapter.NewBlob(redisClient)
	redisCache := redisadapter.NewCache(redisClient)
	idemp := idempotency.NewIdempotency(redisadapter.NewIdempotency(redisClient), time.Hour)
	rl := rateLimit.NewRateLimiter(redisCache)

	rabbitConn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		t.Fatal(err)
	}
	defer rabbitConn.Close()
	rabbitPub, err := rabbit.NewPublisher(rabbitConn)
	if err != nil {
		t.Fatal(err)
	}
	consumer, err := rabbit.NewConsumer(rabbitConn, "integration.q", []string{events.TypeBookingCreated})
	if err != nil {
		t.Fatal(err)
	}
	deliveries, err := consumer.Consume(ctx)
	if err != nil {
		t.Fatal(err)
	}

	cat := catalog.New()
	st := store.New(blob, logger)
	st.Load(ctx)
	pub := events.NewRabbitPublisher(rabbitPub, logger)
	mgr := flow.NewManager(cat, st, pub, insight.Disabled{}, cfg.InsightDebounce, cfg.PaymentDelay)
	tickets := ticket.NewService(st, cat)
	console := admin.NewConsole(st, cat, pub)

	handlers := httphandler.NewHandlers(cfg, cat, mgr, tickets, console, insight.Disabled{}, idemp, logger)
	srv := httptest.NewServer(httphandler.SetupRouter(handlers, logger, rl, idemp))
	defer srv.Close()

	// Walk the wizard end to end.
	resp, err := http.Post(srv.URL+"/v1/flow", "application/json", nil)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create flow failed: %v, status: %d", err, resp.StatusCode)
	}
	var view struct {
		ID      string `json:"id"`
		SeatMap [][]struct {
			Number   int  `json:"number"`
			Occupied bool `json:"occupied"`
		} `json:"seat_map"`
	}
	json.NewDecoder(resp.Body).Decode(&view)
	base := srv.URL + "/v1/flow/" + view.ID

	post := func(path string, payload interface{}, headers map[string]string) *http.Response {
		var body []byte
		if payload != nil {
			body, _ = json.Marshal(payload)
		}
		req, _ := http.NewRequest("POST", base+path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("POST %s failed: %v", path, err)
		}
		return resp
	}

	resp = post("/search", map[string]string{"origin": "Paris", "destination": "Lyon"}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status: %d", resp.StatusCode)
	}
	resp = post("/route", map[string]string{"route_id": "rt_001"}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("route status: %d", resp.StatusCode)
	}
	json.NewDecoder(resp.Body).Decode(&view)

	seat := 0
	for _, row := range view.SeatMap {
		for _, s := range row {
			if !s.Occupied {
				seat = s.Number
				break
			}
		}
		if seat != 0 {
			break
		}
	}
	if seat == 0 {
		t.Fatal("no free seat in seat map")
	}

	resp = post("/seat", map[string]int{"seat_number": seat}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("seat status: %d", resp.StatusCode)
	}
	resp = post("/seat/confirm", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("seat confirm status: %d", resp.StatusCode)
	}
	resp = post("/passenger", map[string]string{
		"first_name": "Claire", "last_name": "Fontaine", "email": "claire@example.com",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("passenger status: %d", resp.StatusCode)
	}

	key := uuid.New().String()
	resp = post("/payment", nil, map[string]string{"Idempotency-Key": key})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("payment status: %d", resp.StatusCode)
	}
	var paid struct {
		Booking struct {
			ID string `json:"id"`
		} `json:"booking"`
		Total float64 `json:"total"`
	}
	json.NewDecoder(resp.Body).Decode(&paid)
	if paid.Total != 47.0 {
		t.Errorf("expected total 47, got %v", paid.Total)
	}

	// A retry with the same key replays the stored response.
	resp = post("/payment", nil, map[string]string{"Idempotency-Key": key})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("payment replay status: %d", resp.StatusCode)
	}
	var replay struct {
		Booking struct {
			ID string `json:"id"`
		} `json:"booking"`
	}
	json.NewDecoder(resp.Body).Decode(&replay)
	if replay.Booking.ID != paid.Booking.ID {
		t.Errorf("replay returned a different booking: %s vs %s", replay.Booking.ID, paid.Booking.ID)
	}

	// The booking.created event reaches the broker.
	select {
	case d := <-deliveries:
		var event struct {
			BookingID string `json:"booking_id"`
		}
		json.Unmarshal(d.Body, &event)
		d.Ack(false)
		if event.BookingID != paid.Booking.ID {
			t.Errorf("event for wrong booking: %s", event.BookingID)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("no booking.created event received")
	}

	// A fresh store over the same Redis slot sees the booking: the blob
	// survives a process restart.
	restarted := store.New(redisadapter.NewBlob(redisClient), logger)
	bookings := restarted.Load(ctx)
	if len(bookings) != 3 {
		t.Fatalf("expected 3 bookings after reload, got %d", len(bookings))
	}
	if bookings[2].ID != paid.Booking.ID {
		t.Errorf("reloaded store misses the new booking")
	}

	// Reset clears the slot back to the seed.
	resetBody, _ := json.Marshal(map[string]bool{"confirm": true})
	resp, err = http.Post(srv.URL+"/v1/admin/reset", "application/json", bytes.NewReader(resetBody))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("reset failed: %v, status: %d", err, resp.StatusCode)
	}
	if n := len(store.New(redisadapter.NewBlob(redisClient), logger).Load(ctx)); n != 2 {
		t.Errorf("expected seed after reset, got %d bookings", n)
	}
}
