package notifymock

import (
	"context"
	"sync"

	"amerilend-backend/internal/domain/notify"
)

// Recorder captures every event sent through either notifier interface.
type Recorder struct {
	mu        sync.Mutex
	Applicant []notify.ApplicationEvent
	Admin     []notify.ApplicationEvent

	Err error
}

func (r *Recorder) NotifyApplicant(_ context.Context, ev notify.ApplicationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Applicant = append(r.Applicant, ev)
	return r.Err
}

func (r *Recorder) NotifyAdmins(_ context.Context, ev notify.ApplicationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Admin = append(r.Admin, ev)
	return r.Err
}

// ApplicantEvents returns a snapshot of applicant notifications.
func (r *Recorder) ApplicantEvents() []notify.ApplicationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.ApplicationEvent, len(r.Applicant))
	copy(out, r.Applicant)
	return out
}
