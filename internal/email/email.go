package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/aircheckin/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

// Send delivers a boarding-pass notification for a completed check-in.
func (s *Sender) Send(ctx context.Context, event kafka.CheckInEvent) error {
	fmt.Printf("send boarding pass %s to %s for flight %s seat %s (group %s, gate %s)\n",
		event.BoardingPass, event.PassengerName, event.FlightNumber, event.SeatNumber, event.BoardingGroup, event.Gate)
	return nil
}
