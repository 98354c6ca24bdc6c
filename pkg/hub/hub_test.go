package hub

import (
	"encoding/json"
	"testing"
	"time"
)

// testObserver builds an observer with a send buffer but no connection; the
// run loop never touches the connection, only the send channel.
func testObserver(h *Hub, buffer int) *Observer {
	return &Observer{hub: h, send: make(chan []byte, buffer)}
}

func TestNewHub(t *testing.T) {
	h := New("observers")

	if h == nil {
		t.Fatal("New returned nil")
	}
	if h.ObserverCount() != 0 {
		t.Error("ObserverCount should be 0 initially")
	}
}

func TestRegisterUnregister(t *testing.T) {
	h := New("observers")
	go h.Run()

	o := testObserver(h, 1)
	h.register <- o

	waitForCount(t, h, 1)

	h.unregister <- o
	waitForCount(t, h, 0)

	// The hub closes the send channel on unregister.
	select {
	case _, ok := <-o.send:
		if ok {
			t.Error("send channel should be closed, not carrying data")
		}
	case <-time.After(time.Second):
		t.Error("send channel was not closed")
	}
}

func TestBroadcastFanOut(t *testing.T) {
	h := New("observers")
	go h.Run()

	o1 := testObserver(h, 4)
	o2 := testObserver(h, 4)
	h.register <- o1
	h.register <- o2
	waitForCount(t, h, 2)

	if err := h.BroadcastJSON(map[string]string{"type": "state_update", "state": "FOCUSED"}); err != nil {
		t.Fatalf("BroadcastJSON() error = %v", err)
	}

	for i, o := range []*Observer{o1, o2} {
		select {
		case data := <-o.send:
			var decoded map[string]string
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("observer %d received invalid JSON: %v", i, err)
			}
			if decoded["state"] != "FOCUSED" {
				t.Errorf("observer %d state = %v, want FOCUSED", i, decoded["state"])
			}
		case <-time.After(time.Second):
			t.Fatalf("observer %d never received the broadcast", i)
		}
	}
}

func TestSlowObserverDropped(t *testing.T) {
	h := New("observers")
	go h.Run()

	slow := testObserver(h, 1)
	healthy := testObserver(h, 16)
	h.register <- slow
	h.register <- healthy
	waitForCount(t, h, 2)

	// Fill the slow observer's buffer, then broadcast until the hub drops
	// it. The healthy observer keeps receiving throughout.
	for i := 0; i < 4; i++ {
		h.Broadcast([]byte(`{"type":"state_update","state":"FOCUSED"}`))
	}

	waitForCount(t, h, 1)

	received := 0
	for {
		select {
		case <-healthy.send:
			received++
		default:
			if received == 0 {
				t.Error("healthy observer received nothing")
			}
			return
		}
	}
}

func TestSendBestEffort(t *testing.T) {
	h := New("observers")
	o := testObserver(h, 1)

	o.Send([]byte("a"))
	o.Send([]byte("b")) // buffer full: dropped, must not block

	select {
	case data := <-o.send:
		if string(data) != "a" {
			t.Errorf("got %q, want first queued update", data)
		}
	default:
		t.Error("first update should have been queued")
	}
}

func waitForCount(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ObserverCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("observer count never reached %d (now %d)", want, h.ObserverCount())
}
