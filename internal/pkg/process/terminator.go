package process

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/mitchellh/go-ps"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

var log = logger.GetLogger()

var NotRunning = errors.New("process not running")

// kernel truncates process names to 15 characters
const commLength = 15

// Terminator ends programs by name, politely first and forcefully after the grace period
type Terminator struct {
	Grace time.Duration

	mu      sync.Mutex
	pending map[string]bool
	wg      sync.WaitGroup

	processes func() ([]ps.Process, error)
	lookup    func(pid int) (ps.Process, error)
	signal    func(pid int, sig unix.Signal) error
	after     func(d time.Duration) <-chan time.Time
}

func NewTerminator(grace time.Duration) *Terminator {
	return &Terminator{
		Grace:     grace,
		pending:   make(map[string]bool),
		processes: ps.Processes,
		lookup:    ps.FindProcess,
		signal:    unix.Kill,
		after:     time.After,
	}
}

func matches(executable, name string) bool {
	if executable == name {
		return true
	}
	return len(name) > commLength && executable == name[:commLength]
}

// Find returns pids of every process running under given name
func (t *Terminator) Find(name string) ([]int, error) {
	processes, err := t.processes()
	if err != nil {
		return nil, fmt.Errorf("listing processes failed: %w", err)
	}

	var pids []int
	for _, p := range processes {
		if matches(p.Executable(), name) {
			pids = append(pids, p.Pid())
		}
	}
	return pids, nil
}

// Terminate sends SIGTERM to every process called name.
// Requests made while a previous one waits for its grace period are ignored.
func (t *Terminator) Terminate(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending[name] {
		log.Info(fmt.Sprintf("termination of \"%s\" already requested", name), logger.Debug)
		return nil
	}

	pids, err := t.Find(name)
	if err != nil {
		return err
	}
	if len(pids) == 0 {
		return fmt.Errorf("%w: %s", NotRunning, name)
	}

	var signalled []int
	for _, pid := range pids {
		err := t.signal(pid, unix.SIGTERM)
		if err != nil {
			if !errors.Is(err, unix.ESRCH) {
				log.Info(fmt.Sprintf("failed to send SIGTERM: %s", err), zap.Int("pid", pid), logger.Error)
			}
			continue
		}
		log.Info(fmt.Sprintf("SIGTERM sent to \"%s\"", name), zap.Int("pid", pid), logger.Info)
		signalled = append(signalled, pid)
	}
	if len(signalled) == 0 {
		return fmt.Errorf("%w: %s", NotRunning, name)
	}

	t.pending[name] = true
	t.wg.Add(1)
	go t.escalate(name, signalled)
	return nil
}

func (t *Terminator) alive(pid int, name string) bool {
	p, err := t.lookup(pid)
	if err != nil || p == nil {
		return false
	}
	// pid may be reused by now
	return matches(p.Executable(), name)
}

func (t *Terminator) escalate(name string, pids []int) {
	defer t.wg.Done()
	<-t.after(t.Grace)

	for _, pid := range pids {
		if !t.alive(pid, name) {
			continue
		}
		err := t.signal(pid, unix.SIGKILL)
		if err != nil && !errors.Is(err, unix.ESRCH) {
			log.Info(fmt.Sprintf("failed to send SIGKILL: %s", err), zap.Int("pid", pid), logger.Error)
			continue
		}
		log.Info(fmt.Sprintf("\"%s\" still running after %s, SIGKILL sent", name, t.Grace), zap.Int("pid", pid), logger.Warning)
	}

	t.mu.Lock()
	delete(t.pending, name)
	t.mu.Unlock()
}

// Wait blocks until every pending escalation is done
func (t *Terminator) Wait() {
	t.wg.Wait()
}
