package instance

import (
	"testing"
	"time"
)

func TestListenNotify(t *testing.T) {
	got := make(chan string, 2)
	srv, err := Listen("127.0.0.1:0", func(msg string) { got <- msg })
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	if err := Notify(srv.Addr(), MsgShowToast); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-got:
		if msg != MsgShowToast {
			t.Errorf("message = %q", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message not received")
	}
}

func TestListen_AddressInUse(t *testing.T) {
	srv, err := Listen("127.0.0.1:0", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	if second, err := Listen(srv.Addr(), nil); err == nil {
		second.Close()
		t.Fatal("second listener on the same address should fail")
	}
}

func TestNotify_NoInstance(t *testing.T) {
	srv, err := Listen("127.0.0.1:0", nil)
	if err != nil {
		t.Fatal(err)
	}
	addr := srv.Addr()
	srv.Close()

	if err := Notify(addr, MsgShowToast); err == nil {
		t.Error("expected dial error after server closed")
	}
}

func TestAcquireRelease(t *testing.T) {
	lock, first := Acquire("AIPaste_Test_Mutex")
	if !first {
		t.Skip("mutex already held by another process")
	}
	lock.Release()
	lock.Release()
}
