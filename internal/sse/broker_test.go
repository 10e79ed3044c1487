package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "garment.created", Data: map[string]string{"id": "g1"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: garment.created") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"id":"g1"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishGarmentEvent_Kinds(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	cases := []struct {
		kind string
		want string
	}{
		{"created", "event: garment.created"},
		{"updated", "event: garment.updated"},
		{"deleted", "event: garment.deleted"},
		{"imported", "event: wardrobe.imported"},
	}
	for _, tc := range cases {
		b.PublishGarmentEvent(tc.kind, "g1")
		select {
		case msg := <-ch:
			if !strings.Contains(string(msg), tc.want) {
				t.Errorf("kind %q produced %q, want %q", tc.kind, msg, tc.want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %q", tc.kind)
		}
	}
}

func TestPublishSaveState(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishSaveState(true)
	b.PublishSaveState(false)

	want := []string{"event: wardrobe.saving", "event: wardrobe.saved"}
	for _, expected := range want {
		select {
		case msg := <-ch:
			if !strings.Contains(string(msg), expected) {
				t.Errorf("got %q, want %q", msg, expected)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %q", expected)
		}
	}
}

func TestPublishBackupEvent(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishBackupEvent("created", "wardrobe_backup_2026-08-29.json")

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: backup.created") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, "wardrobe_backup_2026-08-29.json") {
			t.Errorf("missing backup name in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	// Give handler time to subscribe.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.PublishGarmentEvent("updated", "g1")
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: garment.updated") {
		t.Errorf("handler output missing event: %q", body)
	}

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Fill buffer (capacity 64) and then some; must not block.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: map[string]string{"i": "x"}})
	}
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	// Safe no-ops after close.
	b.Publish(Event{Type: "garment.updated", Data: map[string]string{"id": "x"}})
	b.PublishGarmentEvent("updated", "x")
	b.PublishSaveState(true)
	b.PublishBackupEvent("created", "x.json")
}
