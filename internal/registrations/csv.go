package registrations

import (
	"strconv"
	"strings"

	"clubdesk-backend/internal/models"
)

// csvHeader is the fixed export header, including the spaces after commas.
const csvHeader = "#, Name, Email, Registered At, Status, Attended"

const registeredAtLayout = "2006-01-02 15:04:05"

// ExportCSV renders the roster as CSV: one row per registration in the
// given (descending registration-time) order, string fields quoted,
// Attended as literal Yes/No.
func ExportCSV(participants []models.EventParticipant) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteString("\n")
	for i, p := range participants {
		attended := "No"
		if p.Attended {
			attended = "Yes"
		}
		fields := []string{
			strconv.Itoa(i + 1),
			quote(p.FullName),
			quote(p.Email),
			quote(p.RegisteredAt.Format(registeredAtLayout)),
			quote(p.Status),
			attended,
		}
		b.WriteString(strings.Join(fields, ", "))
		b.WriteString("\n")
	}
	return b.String()
}

// quote wraps a field in double quotes, doubling any embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
