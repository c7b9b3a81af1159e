package notify

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"text/template"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-driver-matrix/junit"
)

// Report statuses.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// CellReport is one driver version and test type of the matrix.
type CellReport struct {
	DriverVersion string
	TestType      string
	// Summary is nil when the run ended with Exception.
	Summary   *junit.Summary
	Exception string
}

// Report ...
type Report struct {
	Status       string
	DriverRemote string
	Cells        []CellReport
}

// SMTPConfig ...
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Notifier ...
type Notifier interface {
	Notify(report Report) error
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type notifier struct {
	logger     log.Logger
	config     SMTPConfig
	recipients []string
	sendMail   sendMailFunc
}

// NewNotifier ...
func NewNotifier(logger log.Logger, config SMTPConfig, recipients []string) Notifier {
	return &notifier{
		logger:     logger,
		config:     config,
		recipients: recipients,
		sendMail:   smtp.SendMail,
	}
}

// Notify mails the report to the recipients, it is a no-op without recipients.
func (n *notifier) Notify(report Report) error {
	if len(n.recipients) == 0 {
		n.logger.Debugf("No recipients, skipping the report mail")
		return nil
	}
	if n.config.Host == "" {
		return errors.New("smtp host not provided")
	}

	body, err := Render(report)
	if err != nil {
		return err
	}

	msg := n.message(Subject(report), body)
	addr := net.JoinHostPort(n.config.Host, strconv.Itoa(n.config.Port))

	var auth smtp.Auth
	if n.config.Username != "" {
		auth = smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)
	}

	n.logger.Infof("Sending the matrix report to: %s", strings.Join(n.recipients, ", "))
	if err := n.sendMail(addr, auth, n.config.From, n.recipients, msg); err != nil {
		return fmt.Errorf("failed to send the report mail: %w", err)
	}
	return nil
}

func (n *notifier) message(subject, body string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", n.config.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(n.recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.Bytes()
}

// Subject ...
func Subject(report Report) string {
	return fmt.Sprintf("Driver matrix %s: %s", report.Status, report.DriverRemote)
}

var reportTemplate = template.Must(template.New("report").Parse(`Status: {{.Status}}
Driver: {{.DriverRemote}}
{{range $cell := .Cells}}
=== {{$cell.DriverVersion}} / {{$cell.TestType}} ===
{{- if $cell.Summary}}
{{- range $suite := $cell.Summary.SuiteOrder}}
{{$suite}}: {{index $cell.Summary.Suites $suite}}
{{- end}}
total: {{$cell.Summary.Total}}
{{- else}}
exception:
{{$cell.Exception}}
{{- end}}
{{end}}`))

// Render builds the plain text body of the report.
func Render(report Report) (string, error) {
	var b bytes.Buffer
	if err := reportTemplate.Execute(&b, report); err != nil {
		return "", fmt.Errorf("failed to render the report: %w", err)
	}
	return b.String(), nil
}
