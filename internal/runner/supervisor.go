// Package runner supervises the external Hytale server processes: one OS
// process per profile, each with a log-reader and an exit-waiter goroutine.
// Every console line is routed through the logparse classifiers to drive
// player tracking, the RUNNING transition and the auth coordinator.
package runner

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hyserve/internal/auth"
	"hyserve/internal/domain"
	"hyserve/internal/logparse"
	"hyserve/internal/ws"
)

const (
	defaultGracefulStop = 30 * time.Second
	defaultForcedStop   = 10 * time.Second
	defaultDisposeStop  = 5 * time.Second
)

// Supervisor owns the registry of server instances, keyed by profile id.
type Supervisor struct {
	log  zerolog.Logger
	auth *auth.Coordinator
	hubs *ws.HubManager

	// Shutdown windows, overridden in tests.
	gracefulStop time.Duration
	forcedStop   time.Duration
	disposeStop  time.Duration

	mu        sync.Mutex
	instances map[string]*Instance
	disposed  bool
}

// NewSupervisor builds the supervisor. coordinator and hubs are optional;
// a nil coordinator disables auth detection, a nil hub manager disables
// console streaming.
func NewSupervisor(log zerolog.Logger, coordinator *auth.Coordinator, hubs *ws.HubManager) *Supervisor {
	return &Supervisor{
		log:          log.With().Str("component", "runner").Logger(),
		auth:         coordinator,
		hubs:         hubs,
		gracefulStop: defaultGracefulStop,
		forcedStop:   defaultForcedStop,
		disposeStop:  defaultDisposeStop,
		instances:    make(map[string]*Instance),
	}
}

// Start launches the server process for a profile. It returns false, with
// no side effects, when the profile is already running or another live
// instance is bound to the same port. True means the process has been
// spawned, not that it is ready; RUNNING is reached only when the boot
// marker appears in the log stream.
func (s *Supervisor) Start(profileID string, cfg domain.ServerConfig, l Listeners) bool {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return false
	}
	if existing, ok := s.instances[profileID]; ok && existing.Alive() {
		s.mu.Unlock()
		s.log.Warn().Str("profile", profileID).Msg("start rejected: already running")
		return false
	}
	for id, other := range s.instances {
		if id != profileID && other.Alive() && other.Config.Port == cfg.Port {
			s.mu.Unlock()
			s.log.Warn().Str("profile", profileID).Int("port", cfg.Port).
				Str("holder", id).Msg("start rejected: port in use")
			return false
		}
	}
	inst := newInstance(profileID, cfg)
	inst.status = domain.StatusStarting
	s.instances[profileID] = inst
	s.mu.Unlock()

	l.status(domain.StatusStarting)
	l.log(fmt.Sprintf("Starting server for profile %s on port %d", profileID, cfg.Port))

	cmd := exec.Command(cfg.JavaPath, BuildArgs(cfg)...)
	cmd.Dir = cfg.Dir

	// stderr merges into stdout so one reader sees every line in emission
	// order.
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	stdin, err := cmd.StdinPipe()
	if err != nil {
		s.failStart(inst, l, fmt.Errorf("stdin pipe: %w", err))
		return false
	}

	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		s.failStart(inst, l, fmt.Errorf("spawn failed: %w", err))
		return false
	}

	inst.attach(cmd, stdin)
	s.log.Info().Str("profile", profileID).Int("pid", cmd.Process.Pid).Msg("server process spawned")

	go s.readLog(inst, pr, l)
	go s.waitExit(inst, cmd, pw, l)
	if s.hubs != nil {
		go s.pumpCommands(inst, s.hubs.Get(profileID))
	}
	return true
}

func (s *Supervisor) failStart(inst *Instance, l Listeners, err error) {
	s.log.Error().Err(err).Str("profile", inst.ProfileID).Msg("start failed")
	l.log("Failed to start server: " + err.Error())
	inst.transition(domain.StatusError, l)
	inst.clear()
}

// readLog is the single reader of the merged output stream. Lines are
// processed strictly in emission order.
func (s *Supervisor) readLog(inst *Instance, r io.Reader, l Listeners) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error().Interface("panic", rec).Str("profile", inst.ProfileID).Msg("log reader panicked")
		}
	}()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		s.routeLine(inst, scanner.Text(), l)
	}
	if err := scanner.Err(); err != nil {
		// Expected once the process is gone; only worth surfacing while the
		// instance still looks alive. The exit waiter owns the terminal
		// transition either way.
		if inst.Alive() {
			s.log.Warn().Err(err).Str("profile", inst.ProfileID).Msg("log stream error")
			l.log("Log stream error: " + err.Error())
		}
	}
}

// routeLine applies the per-line pipeline: listener and console hub first,
// then auth detection, then boot marker, then join/leave tracking.
func (s *Supervisor) routeLine(inst *Instance, line string, l Listeners) {
	l.log(line)
	if s.hubs != nil {
		s.hubs.Get(inst.ProfileID).Broadcast([]byte(line))
	}

	if s.auth != nil {
		s.auth.ParseServerLogLine(line, inst.ProfileID)
	}

	// The compare-and-swap keeps a late boot marker from resurrecting an
	// instance whose exit waiter already moved it to a terminal status.
	if logparse.IsBootComplete(line) {
		if inst.transitionFrom(domain.StatusStarting, domain.StatusRunning, l) {
			s.log.Info().Str("profile", inst.ProfileID).Msg("server is ready")
		}
	}

	if name, ok := logparse.PlayerJoined(line); ok {
		if inst.addPlayer(name) {
			s.log.Debug().Str("profile", inst.ProfileID).Str("player", name).Msg("player joined")
		}
	} else if name, ok := logparse.PlayerLeft(line); ok {
		if inst.removePlayer(name) {
			s.log.Debug().Str("profile", inst.ProfileID).Str("player", name).Msg("player left")
		}
	}
}

// waitExit blocks on process exit and is the sole authority for terminal
// status transitions.
func (s *Supervisor) waitExit(inst *Instance, cmd *exec.Cmd, pw *io.PipeWriter, l Listeners) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error().Interface("panic", rec).Str("profile", inst.ProfileID).Msg("exit waiter panicked")
		}
	}()

	err := cmd.Wait()
	_ = pw.Close()

	status := inst.Status()
	next := domain.StatusStopped
	switch err := err.(type) {
	case nil:
		s.log.Info().Str("profile", inst.ProfileID).Msg("server exited cleanly")
	case *exec.ExitError:
		// Exit codes are informational only.
		s.log.Info().Str("profile", inst.ProfileID).Int("code", err.ExitCode()).Msg("server exited")
	default:
		if status == domain.StatusStarting || status == domain.StatusRunning {
			next = domain.StatusError
		}
		s.log.Error().Err(err).Str("profile", inst.ProfileID).Msg("wait failed")
	}

	inst.clear()
	inst.transition(next, l)
	l.log("Server process exited")
	if s.hubs != nil {
		s.hubs.Remove(inst.ProfileID)
	}
}

// pumpCommands feeds console-hub input into the process until it exits.
func (s *Supervisor) pumpCommands(inst *Instance, hub *ws.Hub) {
	done := inst.doneCh()
	for {
		select {
		case command := <-hub.Commands:
			s.send(inst, string(command))
		case <-done:
			return
		}
	}
}

// Stop requests a graceful shutdown and escalates to a forced kill once the
// graceful window (30s by default) elapses, waiting out the forced window
// (10s) before giving up. The instance always ends STOPPED with player
// state cleared.
func (s *Supervisor) Stop(profileID string, l Listeners) bool {
	inst := s.get(profileID)
	if inst == nil || !inst.Alive() {
		return false
	}

	inst.transition(domain.StatusStopping, l)
	l.log("Stopping server...")
	s.send(inst, "stop")

	done := inst.doneCh()
	select {
	case <-done:
	case <-time.After(s.gracefulStop):
		s.log.Warn().Str("profile", profileID).Msg("graceful window elapsed, killing process")
		l.log("Server did not stop in time, terminating")
		inst.kill()
		select {
		case <-done:
		case <-time.After(s.forcedStop):
			s.log.Error().Str("profile", profileID).Msg("process survived forced termination")
			l.log("Process could not be terminated")
		}
	}

	// Normally the exit waiter has already done this; after a stop failure
	// we still refuse to leak a stuck record.
	inst.clear()
	inst.transition(domain.StatusStopped, l)
	return true
}

// StopAll stops every live instance and returns once all are STOPPED.
func (s *Supervisor) StopAll(l Listeners) {
	var wg sync.WaitGroup
	for _, id := range s.liveProfiles() {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			s.Stop(id, l)
		}(id)
	}
	wg.Wait()
}

// Dispose best-effort stops everything with a compressed window and marks
// the supervisor unusable. Safe to call more than once.
func (s *Supervisor) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, id := range s.liveProfiles() {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			inst := s.get(id)
			if inst == nil || !inst.Alive() {
				return
			}
			s.send(inst, "stop")
			done := inst.doneCh()
			select {
			case <-done:
			case <-time.After(s.disposeStop):
				inst.kill()
			}
			inst.clear()
			inst.transition(domain.StatusStopped, Listeners{})
		}(id)
	}
	wg.Wait()
	s.log.Info().Msg("supervisor disposed")
}

// IsRunning reports whether the profile currently owns a live process.
func (s *Supervisor) IsRunning(profileID string) bool {
	inst := s.get(profileID)
	return inst != nil && inst.Alive()
}

// Status returns the profile's lifecycle state, STOPPED when unknown.
func (s *Supervisor) Status(profileID string) domain.ServerStatus {
	inst := s.get(profileID)
	if inst == nil {
		return domain.StatusStopped
	}
	return inst.Status()
}

// State returns a snapshot of one profile, nil when unknown.
func (s *Supervisor) State(profileID string) *domain.InstanceState {
	inst := s.get(profileID)
	if inst == nil {
		return nil
	}
	state := inst.State()
	return &state
}

// States snapshots every registered instance.
func (s *Supervisor) States() []domain.InstanceState {
	s.mu.Lock()
	instances := make([]*Instance, 0, len(s.instances))
	for _, inst := range s.instances {
		instances = append(instances, inst)
	}
	s.mu.Unlock()

	out := make([]domain.InstanceState, 0, len(instances))
	for _, inst := range instances {
		out = append(out, inst.State())
	}
	return out
}

// RemoveServer drops a registered instance. Running instances are not
// removable.
func (s *Supervisor) RemoveServer(profileID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[profileID]
	if !ok {
		return false
	}
	if inst.Alive() {
		return false
	}
	delete(s.instances, profileID)
	return true
}

func (s *Supervisor) get(profileID string) *Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instances[profileID]
}

func (s *Supervisor) liveProfiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.instances))
	for id, inst := range s.instances {
		if inst.Alive() {
			out = append(out, id)
		}
	}
	return out
}
