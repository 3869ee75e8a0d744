package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template names.
const (
	StatusUpdate  = "status_update"
	CurrentStatus = "current_status"
)

// TicketData feeds the ticket email templates.
type TicketData struct {
	Recipient string
	Title     string
	Status    string
	Signature string
}

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Render produces subject and body for the named template.
// Expects <name>.subject.tmpl and <name>.text.tmpl.
func Render(name string, data TicketData) (subject, text string, err error) {
	subject, err = execute(name+".subject.tmpl", data)
	if err != nil {
		return "", "", err
	}
	text, err = execute(name+".text.tmpl", data)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(subject), text, nil
}

// Build renders the named template into a Message addressed to to.
func Build(name, to string, data TicketData) (Message, error) {
	subject, text, err := Render(name, data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subject, Text: text}, nil
}

func execute(filename string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, filename, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}
