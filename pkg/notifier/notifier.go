// Package notifier formats scan results for Slack and delivers them.
package notifier

import (
	"context"
	"strings"

	"github.com/sambabib/depnotify/pkg/analyzer"
	"github.com/sambabib/depnotify/pkg/credentials"
)

// EntrySeparator sits between two dependencies in a message body
const EntrySeparator = "\n"

// Payload is the message posted to chat.postMessage
type Payload struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// Notifier defines the interface for sending notifications
type Notifier interface {
	Notify(ctx context.Context, payload Payload, secret credentials.Secret) error
}

var stripBraces = strings.NewReplacer("{", "", "}", "")

// FormatBody renders one "`key`: `value`" entry per dependency, in scan
// order. Braces are stripped from the rendered text since Slack would show
// them literally.
func FormatBody(result *analyzer.ScanResult) string {
	updates := result.Updates()
	entries := make([]string, 0, len(updates))
	for _, u := range updates {
		entries = append(entries, u.Key+": "+u.Value)
	}
	return stripBraces.Replace(strings.Join(entries, EntrySeparator))
}

// NewPayload builds the message for channel.
func NewPayload(channel string, result *analyzer.ScanResult) Payload {
	return Payload{
		Channel: channel,
		Text:    FormatBody(result),
	}
}
