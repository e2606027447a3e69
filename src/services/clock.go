package services

import (
	"time"

	"fintrack-server/src/models"
)

// Clock supplies the current calendar date. Budgets without an end date are
// evaluated up to "today", so the budget service takes a Clock instead of
// reading system time directly.
type Clock interface {
	Today() models.Date
}

type systemClock struct{}

func (systemClock) Today() models.Date {
	now := time.Now()
	return models.NewDate(now.Year(), now.Month(), now.Day())
}

func SystemClock() Clock {
	return systemClock{}
}

// FixedClock always reports the same date.
type FixedClock struct {
	Date models.Date
}

func (c FixedClock) Today() models.Date {
	return c.Date
}
