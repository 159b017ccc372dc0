package http

import (
	"bytes"
	"html/template"
	"strconv"
	"time"
)

// The admin email-action endpoints are opened from an email client, so every
// outcome renders a human-readable page; the status code alone is not the
// interface.

type resultPage struct {
	Title          string
	Message        string
	Success        bool
	TrackingNumber string
	DashboardURL   string
	Year           int
}

type rejectFormPage struct {
	FullName       string
	Email          string
	TrackingNumber string
	Amount         string
	ActionURL      string
	DashboardURL   string
	Year           int
}

var resultTmpl = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} - AmeriLend Admin</title>
  <style>
    body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; min-height: 100vh; display: flex; align-items: center; justify-content: center; background: #f3f4f6; }
    .card { max-width: 520px; width: 90%; background: white; border-radius: 16px; box-shadow: 0 10px 40px rgba(0,0,0,0.08); overflow: hidden; }
    .header { background: linear-gradient(135deg, #001a4d 0%, #0050d4 100%); padding: 30px; text-align: center; }
    .header h2 { color: white; font-size: 18px; font-weight: 500; }
    .body { padding: 40px 30px; text-align: center; }
    .status-badge { display: inline-block; padding: 6px 20px; border-radius: 20px; font-weight: 600; font-size: 14px; margin-bottom: 20px; {{if .Success}}background: #d1fae5; color: #059669;{{else}}background: #fee2e2; color: #DC2626;{{end}} }
    .title { font-size: 22px; font-weight: 700; color: #111827; margin-bottom: 12px; }
    .message { color: #6B7280; font-size: 15px; line-height: 1.6; margin-bottom: 20px; }
    .tracking { font-family: monospace; font-size: 14px; background: #f3f4f6; padding: 8px 16px; border-radius: 8px; display: inline-block; color: #374151; }
    .action-link { display: inline-block; margin-top: 24px; padding: 12px 28px; background: #0033A0; color: white; text-decoration: none; border-radius: 8px; font-weight: 600; font-size: 14px; }
    .footer { padding: 16px 30px; background: #f9fafb; text-align: center; font-size: 12px; color: #9CA3AF; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="card">
    <div class="header"><h2>Admin Action Center</h2></div>
    <div class="body">
      <div class="status-badge">{{if .Success}}ACTION COMPLETED{{else}}ACTION FAILED{{end}}</div>
      <h1 class="title">{{.Title}}</h1>
      <p class="message">{{.Message}}</p>
      {{if .TrackingNumber}}<div class="tracking">Tracking: {{.TrackingNumber}}</div>{{end}}
      <br>
      <a href="{{.DashboardURL}}" class="action-link">Open Admin Dashboard</a>
    </div>
    <div class="footer">&copy; {{.Year}} AmeriLend. Secure admin action.</div>
  </div>
</body>
</html>`))

var rejectFormTmpl = template.Must(template.New("rejectForm").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Reject Application - AmeriLend Admin</title>
  <style>
    body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; min-height: 100vh; display: flex; align-items: center; justify-content: center; background: #f3f4f6; }
    .card { max-width: 520px; width: 90%; background: white; border-radius: 16px; box-shadow: 0 10px 40px rgba(0,0,0,0.08); overflow: hidden; }
    .header { background: linear-gradient(135deg, #001a4d 0%, #0050d4 100%); padding: 30px; text-align: center; }
    .header h2 { color: white; font-size: 18px; font-weight: 500; }
    .body { padding: 40px 30px; }
    .title { font-size: 20px; font-weight: 700; color: #111827; margin-bottom: 8px; text-align: center; }
    .subtitle { color: #6B7280; font-size: 14px; text-align: center; margin-bottom: 24px; }
    .info-row { display: flex; justify-content: space-between; padding: 10px 0; border-bottom: 1px solid #f3f4f6; font-size: 14px; }
    .info-label { color: #6B7280; }
    .info-value { color: #111827; font-weight: 600; }
    label { display: block; font-weight: 600; color: #374151; margin-bottom: 8px; margin-top: 20px; font-size: 14px; }
    textarea { width: 100%; padding: 12px; border: 2px solid #e5e7eb; border-radius: 8px; font-size: 14px; font-family: inherit; resize: vertical; min-height: 100px; }
    .btn-row { display: flex; gap: 12px; margin-top: 24px; }
    .btn { flex: 1; padding: 12px; border: none; border-radius: 8px; font-size: 14px; font-weight: 600; cursor: pointer; text-decoration: none; text-align: center; }
    .btn-danger { background: #DC2626; color: white; }
    .btn-secondary { background: #f3f4f6; color: #374151; }
    .footer { padding: 16px 30px; background: #f9fafb; text-align: center; font-size: 12px; color: #9CA3AF; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="card">
    <div class="header"><h2>Admin Action Center</h2></div>
    <div class="body">
      <h1 class="title">Reject Loan Application</h1>
      <p class="subtitle">Please provide a reason for rejecting this application</p>
      <div class="info-row"><span class="info-label">Applicant</span><span class="info-value">{{.FullName}}</span></div>
      <div class="info-row"><span class="info-label">Email</span><span class="info-value">{{.Email}}</span></div>
      <div class="info-row"><span class="info-label">Tracking #</span><span class="info-value" style="font-family: monospace;">{{.TrackingNumber}}</span></div>
      <div class="info-row"><span class="info-label">Amount</span><span class="info-value">{{.Amount}}</span></div>
      <form method="POST" action="{{.ActionURL}}">
        <label for="reason">Rejection Reason <span style="color: #DC2626;">*</span></label>
        <textarea id="reason" name="reason" placeholder="e.g., Insufficient income documentation, credit score below threshold..." required></textarea>
        <div class="btn-row">
          <a href="{{.DashboardURL}}" class="btn btn-secondary">Cancel</a>
          <button type="submit" class="btn btn-danger">Confirm Rejection</button>
        </div>
      </form>
    </div>
    <div class="footer">&copy; {{.Year}} AmeriLend. Secure admin action.</div>
  </div>
</body>
</html>`))

func renderResult(p resultPage) string {
	p.Year = time.Now().Year()
	var buf bytes.Buffer
	_ = resultTmpl.Execute(&buf, p)
	return buf.String()
}

func renderRejectForm(p rejectFormPage) string {
	p.Year = time.Now().Year()
	var buf bytes.Buffer
	_ = rejectFormTmpl.Execute(&buf, p)
	return buf.String()
}

// formatUSD renders cents as a whole-dollar figure with thousands
// separators, the way the admin emails show amounts.
func formatUSD(cents int64) string {
	dollars := strconv.FormatInt(cents/100, 10)
	var out []byte
	for i, ch := range []byte(dollars) {
		if i > 0 && (len(dollars)-i)%3 == 0 && ch != '-' {
			out = append(out, ',')
		}
		out = append(out, ch)
	}
	return "$" + string(out)
}
