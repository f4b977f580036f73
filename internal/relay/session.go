package relay

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/mojo333/gamelink/internal/logger"
)

// State of a relay session.
type State int

const (
	StateInit State = iota
	StateStarting
	StateRunning
	StateStopping
	StateTerminated
	StateFailed
)

// capturer is the capture backend the session controls.
type capturer interface {
	Start(callback func(*CapturedPacket))
	Started() <-chan struct{}
	Err() <-chan error
	Stop()
}

// Session owns the capture lifecycle and the console-driven termination
// protocol: it starts the capture, waits for start confirmation (or startup
// failure), then blocks on console commands until "exit" or an interrupt.
type Session struct {
	rule   Rule
	engine *Engine
	cap    capturer
	log    *logger.Logger

	in  io.Reader
	out io.Writer

	closer io.Closer
	state  State
	fatal  chan error
}

// NewSession wires a sniffer, raw sender and rewrite engine for the rule.
func NewSession(rule Rule, log *logger.Logger) (*Session, error) {
	sender, err := NewSender()
	if err != nil {
		return nil, err
	}
	return &Session{
		rule:   rule,
		engine: NewEngine(rule, sender.Send, log),
		cap:    NewSniffer(rule.Filter.Interface, rule.Filter.BPF()),
		log:    log,
		in:     os.Stdin,
		out:    os.Stdout,
		closer: sender,
		fatal:  make(chan error, 1),
	}, nil
}

// State reports the session's current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Run drives the session through its lifecycle and returns the process exit
// code: 0 after a clean stop via "exit" or interrupt, 1 if capture startup
// or a send fails.
func (s *Session) Run() int {
	defer func() {
		if s.closer != nil {
			s.closer.Close()
		}
	}()

	s.state = StateStarting
	s.cap.Start(s.handlePacket)
	s.logConfig()

	// The startup error is selected against the start confirmation so a
	// failed capture is seen before the console read below would block.
	select {
	case <-s.cap.Started():
		s.state = StateRunning
	case err := <-s.cap.Err():
		s.state = StateFailed
		s.log.Error("%s", err)
		return 1
	}

	lines := make(chan string)
	go readLines(s.in, lines)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	for {
		select {
		case err := <-s.fatal:
			s.state = StateFailed
			s.log.Error("%s", err)
			s.cap.Stop()
			return 1
		case <-interrupt:
			return s.shutdown()
		case line, ok := <-lines:
			// A closed console counts as exit.
			if !ok || line == "exit" {
				return s.shutdown()
			}
			if line != "" {
				fmt.Fprintln(s.out, "Enter 'exit' or press Ctrl+C to close this program.")
			}
		}
	}
}

func (s *Session) shutdown() int {
	s.state = StateStopping
	s.cap.Stop()
	s.log.Info("Program terminated by user.")
	s.state = StateTerminated
	return 0
}

// handlePacket runs on the capture goroutine. The first fatal engine error
// wins; later ones are dropped.
func (s *Session) handlePacket(pkt *CapturedPacket) {
	if _, err := s.engine.HandlePacket(pkt); err != nil {
		select {
		case s.fatal <- err:
		default:
		}
	}
}

func (s *Session) logConfig() {
	f := s.rule.Filter
	s.log.Info("Start sniffing on '%s'", f.Interface)
	s.log.Info("Listen to packets with destination: '%s' UDP ports: %v", f.OldDestination, f.WatchedPorts)
	s.log.Info("Send modified packets to %v", s.rule.NewDestinations)
	s.log.Info("Waiting for packets to modify and send")
}

func readLines(r io.Reader, lines chan<- string) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines <- strings.TrimSpace(sc.Text())
	}
	close(lines)
}
