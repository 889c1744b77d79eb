package model

import (
	"time"
)

// ReportEnvelope is the JSON body POSTed to the collection service. The
// report payload is wrapped in a single "Content" field.
type ReportEnvelope struct {
	Content ReportPayload `json:"Content"`
}

// ReportPayload is the wire rendering of a Report. Optional fields are
// omitted when absent; CrashDateTime and Device exist only on the wire and
// are derived at envelope construction time.
type ReportPayload struct {
	Type          string `json:"Type"`
	Message       string `json:"Message,omitempty"`
	StackTrace    string `json:"StackTrace,omitempty"`
	HelpLink      string `json:"HelpLink,omitempty"`
	HResult       int    `json:"HResult,omitempty"`
	AppVersion    string `json:"AppVersion"`
	CrashDateTime string `json:"CrashDateTime"`
	Device        string `json:"Device"`
}

// NewReportEnvelope builds the wire envelope for a report, stamping in the
// device identifier and the ISO-8601 rendering of the crash instant.
func NewReportEnvelope(report *Report, device string) *ReportEnvelope {
	return &ReportEnvelope{
		Content: ReportPayload{
			Type:          report.ExceptionType,
			Message:       report.Message,
			StackTrace:    report.StackTrace,
			HelpLink:      report.HelpLink,
			HResult:       report.HResult,
			AppVersion:    report.AppVersion,
			CrashDateTime: time.Unix(0, report.CrashTime).UTC().Format(time.RFC3339Nano),
			Device:        device,
		},
	}
}
