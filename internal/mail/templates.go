package mail

import (
	"bytes"
	"text/template"
)

var (
	reminderTmpl = template.Must(template.New("reminder").Parse(
		`Hi {{.Username}},

It has been a while since your last visit. {{.LotCount}} parking lots are
ready for your next booking.

See you soon,
The Parking Team
`))

	reportTmpl = template.Must(template.New("report").Parse(
		`Hi {{.Username}},

Your parking summary for {{.Month}}:

  Reservations completed: {{.ReservationCount}}
  Total spent: ${{.TotalSpent}}
{{- if .MostUsedLot}}
  Most used lot: {{.MostUsedLot}}
{{- end}}

The Parking Team
`))

	exportTmpl = template.Must(template.New("export").Parse(
		`Hi {{.Username}},

Your parking history export is ready. Download it here before it expires:

  {{.DownloadURL}}

The link expires at {{.ExpiresAt}}.

The Parking Team
`))
)

// ReminderData fills the daily reminder template.
type ReminderData struct {
	Username string
	LotCount int64
}

// ReportData fills the monthly report template.
type ReportData struct {
	Username         string
	Month            string
	ReservationCount int
	TotalSpent       string
	MostUsedLot      string
}

// ExportData fills the export notification template.
type ExportData struct {
	Username    string
	DownloadURL string
	ExpiresAt   string
}

// RenderReminder renders the daily reminder body.
func RenderReminder(data ReminderData) string {
	return render(reminderTmpl, data)
}

// RenderReport renders the monthly report body.
func RenderReport(data ReportData) string {
	return render(reportTmpl, data)
}

// RenderExportNotice renders the export completion body.
func RenderExportNotice(data ExportData) string {
	return render(exportTmpl, data)
}

func render(tmpl *template.Template, data interface{}) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}
