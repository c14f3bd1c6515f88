package runner

import "io"

// SendCommand writes one newline-terminated command to the instance's
// stdin. It returns false when the profile is unknown, not running, or the
// write fails; failures are logged once and never retried.
func (s *Supervisor) SendCommand(profileID, command string) bool {
	inst := s.get(profileID)
	if inst == nil {
		s.log.Warn().Str("profile", profileID).Msg("command for unknown profile")
		return false
	}
	return s.send(inst, command)
}

func (s *Supervisor) send(inst *Instance, command string) bool {
	inst.mu.Lock()
	stdin := inst.stdin
	alive := inst.aliveLocked()
	inst.mu.Unlock()

	if !alive || stdin == nil {
		s.log.Warn().Str("profile", inst.ProfileID).Msg("command dropped: server not running")
		return false
	}
	if _, err := io.WriteString(stdin, command+"\n"); err != nil {
		s.log.Warn().Err(err).Str("profile", inst.ProfileID).Msg("command write failed")
		return false
	}
	return true
}
