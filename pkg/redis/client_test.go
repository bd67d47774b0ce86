package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewClientFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClientFromURL(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	if err := (Pinger{Client: client}).Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestNewClientFromURLErrors(t *testing.T) {
	if _, err := NewClientFromURL(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewClientFromURL(context.Background(), "://bad"); err == nil {
		t.Fatal("expected error for malformed url")
	}
}

func TestPingerReportsDownServer(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClientFromURL(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	mr.Close()
	if err := (Pinger{Client: client}).Ping(context.Background()); err == nil {
		t.Fatal("expected ping error after server shutdown")
	}
}
