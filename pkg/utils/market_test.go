package utils

import (
	"testing"
	"time"
)

func TestNextMarketOpenIsWeekdayMorning(t *testing.T) {
	next := NextMarketOpen()

	if next.Before(time.Now()) {
		t.Errorf("next open %v is in the past", next)
	}
	if wd := next.Weekday(); wd == time.Saturday || wd == time.Sunday {
		t.Errorf("next open falls on %s", wd)
	}
	if next.Hour() != 9 || next.Minute() != 15 {
		t.Errorf("next open at %02d:%02d, want 09:15", next.Hour(), next.Minute())
	}
}

func TestIndiaLocationOffset(t *testing.T) {
	_, offset := time.Now().In(IndiaLocation).Zone()
	if offset != 5*3600+30*60 {
		t.Errorf("IST offset = %d seconds, want 19800", offset)
	}
}
