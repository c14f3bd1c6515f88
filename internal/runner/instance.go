package runner

import (
	"io"
	"os/exec"
	"sort"
	"sync"
	"time"

	"hyserve/internal/domain"
)

// Listeners is the per-call observer pair supplied to Start and Stop. Both
// fields are optional.
type Listeners struct {
	Log    func(line string)
	Status func(status domain.ServerStatus)
}

func (l Listeners) log(line string) {
	if l.Log != nil {
		l.Log(line)
	}
}

func (l Listeners) status(s domain.ServerStatus) {
	if l.Status != nil {
		l.Status(s)
	}
}

// Instance is the mutable runtime record for one profile. It is owned by
// the Supervisor; external callers only see snapshots.
type Instance struct {
	ProfileID string
	Config    domain.ServerConfig

	mu        sync.Mutex
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	status    domain.ServerStatus
	startTime time.Time
	players   map[string]struct{}
	done      chan struct{}
}

func newInstance(profileID string, cfg domain.ServerConfig) *Instance {
	return &Instance{
		ProfileID: profileID,
		Config:    cfg,
		status:    domain.StatusStopped,
		players:   make(map[string]struct{}),
		done:      make(chan struct{}),
	}
}

func (i *Instance) Status() domain.ServerStatus {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status
}

// Alive reports whether the instance currently owns a process (or is in the
// middle of acquiring one).
func (i *Instance) Alive() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.aliveLocked()
}

func (i *Instance) aliveLocked() bool {
	switch i.status {
	case domain.StatusStarting, domain.StatusRunning, domain.StatusStopping:
		return true
	}
	return false
}

// transition moves the instance to a new status and notifies the listener.
// The listener is invoked outside the lock.
func (i *Instance) transition(to domain.ServerStatus, l Listeners) {
	i.mu.Lock()
	if i.status == to {
		i.mu.Unlock()
		return
	}
	i.status = to
	i.mu.Unlock()
	l.status(to)
}

// transitionFrom moves to a new status only when the current status still
// equals from, reporting whether it did. The check and the write share one
// lock acquisition so a terminal transition applied by another goroutine in
// between cannot be overwritten.
func (i *Instance) transitionFrom(from, to domain.ServerStatus, l Listeners) bool {
	i.mu.Lock()
	if i.status != from {
		i.mu.Unlock()
		return false
	}
	i.status = to
	i.mu.Unlock()
	l.status(to)
	return true
}

// attach records the spawned process. Called once per successful start.
func (i *Instance) attach(cmd *exec.Cmd, stdin io.WriteCloser) {
	i.mu.Lock()
	i.cmd = cmd
	i.stdin = stdin
	i.startTime = time.Now()
	i.done = make(chan struct{})
	i.mu.Unlock()
}

// clear wipes process state after a terminal transition. Safe to call more
// than once; the done channel is closed exactly once.
func (i *Instance) clear() {
	i.mu.Lock()
	i.cmd = nil
	i.stdin = nil
	i.startTime = time.Time{}
	i.players = make(map[string]struct{})
	select {
	case <-i.done:
	default:
		close(i.done)
	}
	i.mu.Unlock()
}

func (i *Instance) kill() {
	i.mu.Lock()
	cmd := i.cmd
	i.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

func (i *Instance) doneCh() chan struct{} {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.done
}

func (i *Instance) pid() int32 {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.cmd == nil || i.cmd.Process == nil {
		return 0
	}
	return int32(i.cmd.Process.Pid)
}

// addPlayer records a join. Joins for an already-present name are no-ops so
// repeated log emissions cannot inflate the count.
func (i *Instance) addPlayer(name string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.players[name]; ok {
		return false
	}
	i.players[name] = struct{}{}
	return true
}

// removePlayer records a leave. Leaves for unknown names are no-ops; the
// count can never go negative.
func (i *Instance) removePlayer(name string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.players[name]; !ok {
		return false
	}
	delete(i.players, name)
	return true
}

func (i *Instance) PlayerCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.players)
}

func (i *Instance) Players() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]string, 0, len(i.players))
	for name := range i.players {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Uptime returns seconds since start, or 0 when not running.
func (i *Instance) Uptime() int64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.startTime.IsZero() {
		return 0
	}
	return int64(time.Since(i.startTime).Seconds())
}

// State returns a read-only snapshot.
func (i *Instance) State() domain.InstanceState {
	i.mu.Lock()
	players := make([]string, 0, len(i.players))
	for name := range i.players {
		players = append(players, name)
	}
	status := i.status
	var uptime int64
	if !i.startTime.IsZero() {
		uptime = int64(time.Since(i.startTime).Seconds())
	}
	i.mu.Unlock()

	sort.Strings(players)
	return domain.InstanceState{
		ProfileID:   i.ProfileID,
		Status:      status,
		PlayerCount: len(players),
		Players:     players,
		Uptime:      uptime,
	}
}
