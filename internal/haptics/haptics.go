// Package haptics provides the tactile and notification feedback the
// breathing timer and the purchase flow emit. Feedback is fire-and-forget:
// implementations swallow their own failures.
package haptics

import "sync"

// Intensity is the strength of an impact.
type Intensity string

const (
	Light  Intensity = "light"
	Medium Intensity = "medium"
	Heavy  Intensity = "heavy"
)

// Outcome classifies a notification.
type Outcome string

const (
	Success Outcome = "success"
	Error   Outcome = "error"
	Warning Outcome = "warning"
)

// Haptics is the feedback collaborator.
type Haptics interface {
	// Impact signals a discrete event such as a phase change
	Impact(intensity Intensity)
	// Notify signals the outcome of an operation with a short message
	Notify(outcome Outcome, message string)
}

// Nop discards all feedback.
type Nop struct{}

func (Nop) Impact(Intensity) {}

func (Nop) Notify(Outcome, string) {}

// Notification is a recorded call to Notify.
type Notification struct {
	Outcome Outcome
	Message string
}

// Recorder keeps every signal it receives. It is safe for concurrent use.
type Recorder struct {
	impacts       []Intensity
	notifications []Notification
	mu            sync.Mutex
}

func (r *Recorder) Impact(intensity Intensity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.impacts = append(r.impacts, intensity)
}

func (r *Recorder) Notify(outcome Outcome, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = append(r.notifications, Notification{
		Outcome: outcome,
		Message: message,
	})
}

// Impacts returns a copy of the recorded impacts.
func (r *Recorder) Impacts() []Intensity {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Intensity, len(r.impacts))
	copy(out, r.impacts)

	return out
}

// Notifications returns a copy of the recorded notifications.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)

	return out
}

// Outcomes returns the outcomes of the recorded notifications.
func (r *Recorder) Outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Outcome, len(r.notifications))
	for i, n := range r.notifications {
		out[i] = n.Outcome
	}

	return out
}

// Reset clears everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.impacts = nil
	r.notifications = nil
}
