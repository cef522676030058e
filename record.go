package main

import (
	"fmt"
	"strings"
	"time"
)

type sourceKind string

const (
	sourceInline sourceKind = "inline"
	sourceFile   sourceKind = "file"
)

// A build verdict as sent to a chat. We save these to our local database.
type buildRecord struct {
	ID       uint64
	ChatID   int64
	When     time.Time
	Sender   string
	Kind     sourceKind
	FileName string
	OK       bool
	Verdict  string
}

func (r *buildRecord) source() string {
	if r.Kind == sourceFile && r.FileName != "" {
		return r.FileName
	}
	return string(r.Kind)
}

func (r *buildRecord) summary() string {
	line, _, _ := strings.Cut(r.Verdict, "\n")
	return line
}

// reportName is the file name of the record in the report file server.
func (r *buildRecord) reportName() string {
	return fmt.Sprintf("%d-%d.txt", r.When.Unix(), r.ID)
}

func (r *buildRecord) report() []byte {
	var b strings.Builder
	result := "error"
	if r.OK {
		result = "ok"
	}
	_, _ = fmt.Fprintf(&b, "chat: %d\n", r.ChatID)
	_, _ = fmt.Fprintf(&b, "when: %s\n", r.When.UTC().Format(time.RFC3339))
	if r.Sender != "" {
		_, _ = fmt.Fprintf(&b, "sender: %s\n", r.Sender)
	}
	_, _ = fmt.Fprintf(&b, "source: %s\n", r.source())
	_, _ = fmt.Fprintf(&b, "result: %s\n\n", result)
	b.WriteString(r.Verdict)
	b.WriteByte('\n')
	return []byte(b.String())
}

const historyWidth = 70

// formatHistory renders records, newest first, for a chat message.
func formatHistory(records []*buildRecord) string {
	if len(records) == 0 {
		return "No builds yet."
	}
	var b strings.Builder
	for i, r := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		_, _ = fmt.Fprintf(&b, "%s %s\n", r.When.UTC().Format("2006-01-02 15:04:05"), r.source())
		b.WriteString(wrap(r.summary(), "    ", historyWidth))
	}
	return b.String()
}
