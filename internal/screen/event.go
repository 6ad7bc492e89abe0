// Package screen is the render surface side of the kiosk: an event bus fed
// by the dispatcher and a single goroutine that owns what is on screen.
package screen

import (
	"time"

	"scan_kiosk/internal/models"
)

type Kind string

const (
	KindIdle    Kind = "idle"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Page titles.
const (
	TitleIdle            = "Please scan your code"
	TitleSuccess         = "Please take your items"
	TitleConnectionError = "Connection error"
	TitleInvalidCode     = "Invalid code"
)

// Event asks the surface to show a page.
type Event struct {
	Kind    Kind
	Outcome models.Outcome
	Order   *models.Order
	Message string
	At      time.Time
}

func Idle(at time.Time) Event {
	return Event{Kind: KindIdle, At: at}
}

func Success(order *models.Order, at time.Time) Event {
	return Event{Kind: KindSuccess, Outcome: models.OutcomeAccepted, Order: order, At: at}
}

func Error(outcome models.Outcome, message string, at time.Time) Event {
	return Event{Kind: KindError, Outcome: outcome, Message: message, At: at}
}

// title picks the page header. Anything that is not a plain rejection is
// reported as a connection problem.
func title(ev Event) string {
	switch ev.Kind {
	case KindSuccess:
		return TitleSuccess
	case KindError:
		if ev.Outcome == models.OutcomeRejected {
			return TitleInvalidCode
		}
		return TitleConnectionError
	default:
		return TitleIdle
	}
}

func snapshot(ev Event) models.ScreenSnapshot {
	return models.ScreenSnapshot{
		Kind:    string(ev.Kind),
		Outcome: string(ev.Outcome),
		Title:   title(ev),
		Message: ev.Message,
		Order:   ev.Order,
		Since:   ev.At,
	}
}
