package model

import (
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/uptrace/bun"
)

// Report is one captured exception occurrence, queued on the device until it
// has been flushed to the collection service. Rows are never deleted; Flushed
// only ever moves from false to true.
type Report struct {
	bun.BaseModel `bun:"table:exception_reports,alias:er"`

	Uid           string `bun:",pk" json:"uid"`
	ExceptionType string `bun:",notnull" json:"exceptionType"`
	Message       string `json:"message,omitempty"`
	StackTrace    string `json:"stackTrace,omitempty"`
	HelpLink      string `json:"helpLink,omitempty"`
	HResult       int    `json:"hResult,omitempty"`
	AppVersion    string `bun:",notnull" json:"appVersion"`
	CrashTime     int64  `bun:",notnull" json:"crashTime"`
	Flushed       bool   `bun:",notnull,default:false" json:"flushed"`
}

// NewReport promotes a set of captured exception fields into a queueable
// Report with a freshly generated uid. ULIDs sort in generation order, which
// keeps ties on CrashTime in insertion order.
func NewReport(exceptionType, message string, hResult int, helpLink, stackTrace, appVersion string, crashTime int64) *Report {
	return &Report{
		Uid:           strings.ToLower(ulid.Make().String()),
		ExceptionType: exceptionType,
		Message:       message,
		StackTrace:    stackTrace,
		HelpLink:      helpLink,
		HResult:       hResult,
		AppVersion:    appVersion,
		CrashTime:     crashTime,
	}
}
