// internal/app/classifier.go
package app

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"pebble_scheduler/internal/domain/item"
	domainMail "pebble_scheduler/internal/domain/mail"
	"pebble_scheduler/internal/domain/user"
)

type decisionKind int

const (
	decisionFire decisionKind = iota
	decisionReminder
)

// deliveryDecision is the classifier output for one candidate: which window
// the item fell into and the ready-to-send message payloads for that case.
type deliveryDecision struct {
	Kind     decisionKind
	Messages []domainMail.Message
}

// classifyItem decides whether a candidate fires now or gets a reminder.
// Fire takes precedence should both windows ever contain the send date. A
// candidate in neither window means the query contract was broken upstream,
// so it is rejected rather than defaulted to the reminder path.
func classifyItem(it *item.Item, owner *user.User, todayWindow, reminderWindow item.Window, from, postponeBaseURL string) (deliveryDecision, error) {
	switch {
	case todayWindow.Contains(it.SendDate):
		delivery := domainMail.Message{
			From:    from,
			To:      it.Recipient,
			Subject: "You have a message waiting for you",
			Body:    fmt.Sprintf("Hello, %s! %s has left a message for you.\n%s", it.Name, owner.Name, it.Message),
		}
		receipt := domainMail.Message{
			From:    from,
			To:      owner.Email,
			Subject: fmt.Sprintf("Your message is sent to %s", it.Name),
			Body:    fmt.Sprintf("Hello, %s! Your message %q for %s is sent today as below.\n\n%s", owner.Name, it.Title, it.Name, it.Message),
		}
		return deliveryDecision{Kind: decisionFire, Messages: []domainMail.Message{delivery, receipt}}, nil

	case reminderWindow.Contains(it.SendDate):
		body := fmt.Sprintf(
			"Hello, %s! This is your scheduled email.\n%s\nIf you would like to postpone it click here: %s\nOtherwise it will be sent on %s",
			owner.Name, it.Message, postponeLink(postponeBaseURL, it), formatSendDate(it.SendDate),
		)
		reminder := domainMail.Message{
			From:    from,
			To:      owner.Email,
			Subject: "You have a message to be delivered",
			Body:    body,
		}
		return deliveryDecision{Kind: decisionReminder, Messages: []domainMail.Message{reminder}}, nil

	default:
		return deliveryDecision{}, fmt.Errorf("item %s: send date %d lies outside both delivery windows", it.ID, it.SendDate)
	}
}

func postponeLink(baseURL string, it *item.Item) string {
	params := url.Values{}
	params.Set("item", it.ID)
	params.Set("code", it.PostponeCode)
	return strings.TrimSuffix(baseURL, "/") + "/postpone?" + params.Encode()
}

func formatSendDate(ms int64) string {
	return time.UnixMilli(ms).Format("Mon Jan 02 2006")
}
