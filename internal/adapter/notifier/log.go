package notifier

import (
	"context"
	"fmt"
	"log"

	"amerilend-backend/internal/domain/notify"
	"amerilend-backend/internal/token"
)

// Log writes notifications to the process log instead of sending mail. It
// still issues real action tokens and prints the full approve/reject URLs,
// so the email-action flow is exercisable end to end from the log output.
type Log struct {
	tokens  *token.Service
	baseURL string
}

func NewLog(tokens *token.Service, baseURL string) *Log {
	return &Log{tokens: tokens, baseURL: baseURL}
}

func (l *Log) NotifyApplicant(_ context.Context, ev notify.ApplicationEvent) error {
	log.Printf("notify applicant %s <%s>: application %s is now %s (%s)",
		ev.FullName, ev.Email, ev.TrackingNumber, ev.Status, ev.Detail)
	return nil
}

func (l *Log) NotifyAdmins(_ context.Context, ev notify.ApplicationEvent) error {
	approve := l.actionURL(token.ActionApprove, ev.ApplicationID)
	reject := l.actionURL(token.ActionReject, ev.ApplicationID)
	log.Printf("notify admins: application %s from %s <%s> awaits review (%s)\n  approve: %s\n  reject:  %s",
		ev.TrackingNumber, ev.FullName, ev.Email, ev.Detail, approve, reject)
	return nil
}

func (l *Log) actionURL(action token.Action, applicationID uint64) string {
	return fmt.Sprintf("%s/api/admin-action/%s/%s", l.baseURL, action, l.tokens.Issue(applicationID, action))
}
