package resttimer

import "log/slog"

// Alerter is notified when a countdown reaches zero. Implementations may
// play a sound, send a webhook, or just log; a failing alerter never stops
// the timer.
type Alerter interface {
	Finished(totalSeconds int) error
}

// NopAlerter discards the finished signal.
type NopAlerter struct{}

func (NopAlerter) Finished(int) error { return nil }

// LogAlerter records the finished signal in the server log.
type LogAlerter struct {
	Log *slog.Logger
}

func (a LogAlerter) Finished(totalSeconds int) error {
	a.Log.Info("rest timer finished", "totalSeconds", totalSeconds)
	return nil
}

// Chain tries each alerter in order and stops at the first success, so a
// preferred channel can degrade to a fallback.
type Chain []Alerter

func (c Chain) Finished(totalSeconds int) error {
	var last error
	for _, a := range c {
		if err := a.Finished(totalSeconds); err == nil {
			return nil
		} else {
			last = err
		}
	}
	return last
}
