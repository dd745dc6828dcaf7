package handler

import (
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/util"
	"github.com/labstack/echo/v4"
)

// Clock returns the current instant; handlers convert it to a calendar date in their location
type Clock func() time.Time

// dateParams resolves the "today" used by date-dependent endpoints
type dateParams struct {
	clock    Clock
	location *time.Location
}

func newDateParams(clock Clock, location *time.Location) dateParams {
	if clock == nil {
		clock = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return dateParams{clock: clock, location: location}
}

// today returns the calendar date in the "date" query param, or the clock's date in the configured location
func (p dateParams) today(c echo.Context) (time.Time, error) {
	if raw := c.QueryParam("date"); raw != "" {
		return util.ParseDate(raw)
	}
	return util.DateOnly(p.clock().In(p.location)), nil
}

func invalidDateError(c echo.Context) error {
	return NewValidationError(c, "Invalid date", []ValidationError{
		{Field: "date", Message: "Must be in YYYY-MM-DD format"},
	})
}

func invalidIDError(c echo.Context) error {
	return NewValidationError(c, "Invalid ID", []ValidationError{
		{Field: "id", Message: "Must be a valid UUID"},
	})
}
