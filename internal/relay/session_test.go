package relay

import (
	"bytes"
	"errors"
	"net/netip"
	"strings"
	"testing"
)

// fakeCapturer drives the session without a live capture backend.
type fakeCapturer struct {
	started   chan struct{}
	errCh     chan error
	stopped   chan struct{}
	callbacks chan func(*CapturedPacket)
}

func newFakeCapturer() *fakeCapturer {
	return &fakeCapturer{
		started:   make(chan struct{}),
		errCh:     make(chan error, 1),
		stopped:   make(chan struct{}),
		callbacks: make(chan func(*CapturedPacket), 1),
	}
}

func (f *fakeCapturer) Start(callback func(*CapturedPacket)) { f.callbacks <- callback }
func (f *fakeCapturer) Started() <-chan struct{}             { return f.started }
func (f *fakeCapturer) Err() <-chan error                    { return f.errCh }
func (f *fakeCapturer) Stop() {
	select {
	case <-f.stopped:
	default:
		close(f.stopped)
	}
}

func newTestSession(backend capturer, in string, send SendFunc) (*Session, *bytes.Buffer) {
	rule := testRule("10.0.10.1")
	var out bytes.Buffer
	s := &Session{
		rule:   rule,
		engine: NewEngine(rule, send, testLogger()),
		cap:    backend,
		log:    testLogger(),
		in:     strings.NewReader(in),
		out:    &out,
		fatal:  make(chan error, 1),
	}
	return s, &out
}

func TestSessionExitCommand(t *testing.T) {
	backend := newFakeCapturer()
	close(backend.started)
	s, out := newTestSession(backend, "bogus\nexit\n", recordingSend(new([]sentPacket)))

	if code := s.Run(); code != 0 {
		t.Fatalf("Run() = %d, want 0", code)
	}
	if s.State() != StateTerminated {
		t.Errorf("state = %v, want StateTerminated", s.State())
	}
	if !strings.Contains(out.String(), "Enter 'exit'") {
		t.Errorf("expected usage reminder for unknown command, got: %q", out.String())
	}
	select {
	case <-backend.stopped:
	default:
		t.Error("capture was not stopped on exit")
	}
}

func TestSessionEmptyLineIgnored(t *testing.T) {
	backend := newFakeCapturer()
	close(backend.started)
	s, out := newTestSession(backend, "\n\nexit\n", recordingSend(new([]sentPacket)))

	if code := s.Run(); code != 0 {
		t.Fatalf("Run() = %d, want 0", code)
	}
	if strings.Contains(out.String(), "Enter 'exit'") {
		t.Errorf("empty lines must not print the usage reminder, got: %q", out.String())
	}
}

func TestSessionConsoleEOF(t *testing.T) {
	backend := newFakeCapturer()
	close(backend.started)
	s, _ := newTestSession(backend, "", recordingSend(new([]sentPacket)))

	if code := s.Run(); code != 0 {
		t.Fatalf("Run() = %d, want 0 on closed console", code)
	}
}

func TestSessionStartupFailure(t *testing.T) {
	backend := newFakeCapturer()
	backend.errCh <- errors.New("eth9: no such device")
	// Console input is available, but the startup failure must win before
	// the session blocks on it.
	s, _ := newTestSession(backend, "exit\n", recordingSend(new([]sentPacket)))

	if code := s.Run(); code != 1 {
		t.Fatalf("Run() = %d, want 1 on capture startup failure", code)
	}
	if s.State() != StateFailed {
		t.Errorf("state = %v, want StateFailed", s.State())
	}
}

func TestSessionFatalSendError(t *testing.T) {
	backend := newFakeCapturer()
	close(backend.started)

	sendErr := errors.New("network is unreachable")
	failingSend := func(packet []byte, dst netip.Addr) error { return sendErr }

	// An idle console: the session must terminate via the fatal error
	// channel, not console input.
	s, _ := newTestSession(backend, "", failingSend)
	s.in = neverReader{}

	go func() {
		callback := <-backend.callbacks
		callback(&CapturedPacket{
			SrcAddr: netip.MustParseAddr("192.168.1.20"),
			SrcPort: 40123,
			DstPort: 6112,
			Payload: []byte("x"),
		})
	}()

	if code := s.Run(); code != 1 {
		t.Fatalf("Run() = %d, want 1 on send failure", code)
	}
	if s.State() != StateFailed {
		t.Errorf("state = %v, want StateFailed", s.State())
	}
}

// neverReader blocks forever, like an idle console.
type neverReader struct{}

func (neverReader) Read(p []byte) (int, error) {
	select {}
}
