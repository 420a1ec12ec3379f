package notification

import (
	"fmt"
	"html"

	"booknest/internal/model"
)

const dateLayout = "Monday 02 January 2006, 15:04 MST"

// RenderReservationMessage 依通知類型組出給使用者的信件
func RenderReservationMessage(n *model.Notification, user *model.User, event *model.Event) Message {
	var subject, headline string
	switch n.Type {
	case model.NotificationReservationCreated:
		if n.Status == model.ReservationStatusPending {
			subject = "Reservation received"
			headline = "Your reservation is waiting for approval."
		} else {
			subject = "Reservation confirmed"
			headline = "Your seats are booked."
		}
	case model.NotificationReservationConfirmed:
		subject = "Reservation confirmed"
		headline = "An organiser confirmed your reservation."
	case model.NotificationReservationRefused:
		subject = "Reservation refused"
		headline = "An organiser refused your reservation. Your seats were released."
	case model.NotificationReservationCancelled:
		subject = "Reservation cancelled"
		headline = "Your reservation has been cancelled."
	default:
		subject = "Reservation update"
		headline = "Your reservation was updated."
	}

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <p>Hello %s,</p>
  <p>%s</p>
  <table>
    <tr><td><b>Event</b></td><td>%s</td></tr>
    <tr><td><b>Date</b></td><td>%s</td></tr>
    <tr><td><b>Location</b></td><td>%s</td></tr>
    <tr><td><b>Seats</b></td><td>%d</td></tr>
    <tr><td><b>Status</b></td><td>%s</td></tr>
  </table>
  <p>BookNest</p>
</body>
</html>`,
		html.EscapeString(user.FirstName),
		headline,
		html.EscapeString(event.Title),
		event.Date.UTC().Format(dateLayout),
		html.EscapeString(event.Location),
		n.NumberOfSeats,
		n.Status,
	)

	return Message{
		To:      user.Email,
		Subject: fmt.Sprintf("BookNest - %s: %s", subject, event.Title),
		HTML:    body,
	}
}
