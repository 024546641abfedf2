package models

import (
	"errors"
	"strconv"
	"time"
)

// Timezone for day-boundary math in reports. The shop operates in Thailand
// and report dates come in as plain calendar dates.
const ReportTimezone = "Asia/Bangkok"

// MyDateString is a calendar date ("2006-01-02") that report queries widen
// to a UTC window covering the local day.
type MyDateString time.Time

func (t MyDateString) Time() time.Time {
	return time.Time(t)
}

func (t MyDateString) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(time.Time(t).Format("2006-01-02"))), nil
}

func (t *MyDateString) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("date must be a string")
	}

	localTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		return errors.New("error parsing date, want YYYY-MM-DD")
	}
	*t = MyDateString(localTime)

	return nil
}

func (t *MyDateString) StartOfDayUTCTime() error {
	// do nothing if the pointer is nil
	if t == nil {
		return nil
	}

	localTime := time.Time(*t)

	location, err := time.LoadLocation(ReportTimezone)
	if err != nil {
		return err
	}

	localTimeInZone := time.Date(
		localTime.Year(), localTime.Month(), localTime.Day(),
		0, 0, 0, 0,
		location,
	)

	*t = MyDateString(localTimeInZone.In(time.UTC))

	return nil
}

func (t *MyDateString) EndOfDayUTCTime() error {
	// do nothing if the pointer is nil
	if t == nil {
		return nil
	}

	localTime := time.Time(*t)

	location, err := time.LoadLocation(ReportTimezone)
	if err != nil {
		return err
	}

	localTimeInZone := time.Date(
		localTime.Year(), localTime.Month(), localTime.Day(),
		23, 59, 59, int(time.Second-time.Nanosecond),
		location,
	)

	*t = MyDateString(localTimeInZone.In(time.UTC))

	return nil
}

// ParseDateString parses a query-string date parameter.
func ParseDateString(value string) (MyDateString, error) {
	localTime, err := time.Parse("2006-01-02", value)
	if err != nil {
		return MyDateString{}, errors.New("error parsing date, want YYYY-MM-DD")
	}
	return MyDateString(localTime), nil
}
