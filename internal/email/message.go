package email

import (
	"fmt"
	"mime"
	"strings"
	"time"
)

// BuildHTMLMessage assembles a single part text/html message with the
// headers SMTP relays expect. Header values are RFC 2047 encoded when needed.
func BuildHTMLMessage(from, to, subject, html string, date time.Time) []byte {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject)))
	sb.WriteString("Date: " + date.Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(strings.ReplaceAll(strings.ReplaceAll(html, "\r\n", "\n"), "\n", "\r\n"))
	if !strings.HasSuffix(html, "\n") {
		sb.WriteString("\r\n")
	}
	return []byte(sb.String())
}
