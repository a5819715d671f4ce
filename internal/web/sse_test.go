package web

import (
	"sync"
	"testing"
	"time"
)

func TestBroadcasterRegisterUnregister(t *testing.T) {
	b := NewBroadcaster()
	c1 := b.Register()
	c2 := b.Register()
	if b.ClientCount() != 2 {
		t.Fatalf("expected 2 clients, got %d", b.ClientCount())
	}
	b.Unregister(c1)
	b.Unregister(c1)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", b.ClientCount())
	}
	b.Unregister(c2)
	if b.ClientCount() != 0 {
		t.Fatalf("expected no clients, got %d", b.ClientCount())
	}
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	b := NewBroadcaster()
	clients := []*client{b.Register(), b.Register()}
	b.Broadcast("hello")
	for i, c := range clients {
		select {
		case msg := <-c.ch:
			if msg != "hello" {
				t.Fatalf("client %d got %q", i, msg)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("client %d did not receive message", i)
		}
		b.Unregister(c)
	}
}

func TestBroadcastSkipsFullChannel(t *testing.T) {
	b := NewBroadcaster()
	c := b.Register()
	for range sseChannelBuffer {
		b.Broadcast("fill")
	}
	// Must not block.
	b.Broadcast("overflow")
	b.Unregister(c)
}

func TestBroadcasterConcurrent(t *testing.T) {
	b := NewBroadcaster()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := b.Register()
			b.Broadcast("msg")
			b.ClientCount()
			b.Unregister(c)
		}()
	}
	wg.Wait()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after concurrent test")
	}
}

func TestOfferOnFullClientDoesNotBlock(t *testing.T) {
	b := NewBroadcaster()
	c := b.Register()
	defer b.Unregister(c)
	for range sseChannelBuffer {
		if !c.offer("fill") {
			t.Fatalf("expected buffered offer to succeed")
		}
	}
	done := make(chan bool, 1)
	go func() { done <- c.offer("state") }()
	select {
	case ok := <-done:
		if ok {
			t.Fatalf("expected offer on a full buffer to report false")
		}
	case <-time.After(time.Second):
		t.Fatalf("offer blocked on a full buffer")
	}
}
