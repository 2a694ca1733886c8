package storage

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrSlotTaken       = errors.New("time slot is already booked")
)
