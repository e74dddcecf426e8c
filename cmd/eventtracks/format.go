package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"eventtracks/internal/domain"
)

const undefinedDate = "Fecha no definida"

var printer = message.NewPrinter(language.Spanish)

func formatDate(t time.Time) string {
	if t.IsZero() {
		return undefinedDate
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format("2006-01-02 15:04")
}

func formatDateRange(start, end time.Time) string {
	if start.IsZero() && end.IsZero() {
		return undefinedDate
	}
	if start.Equal(end) || end.IsZero() {
		return formatDate(start)
	}
	return formatDate(start) + " → " + formatDate(end)
}

// spanishMagnitudes mirrors humanize's default magnitudes with Spanish wording.
// The label ("hace" or "dentro de") leads the phrase.
var spanishMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Second, Format: "ahora", DivBy: time.Second},
	{D: 2 * time.Second, Format: "%s 1 segundo", DivBy: 1},
	{D: time.Minute, Format: "%s %d segundos", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "%s 1 minuto", DivBy: 1},
	{D: time.Hour, Format: "%s %d minutos", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "%s 1 hora", DivBy: 1},
	{D: humanize.Day, Format: "%s %d horas", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "%s 1 día", DivBy: 1},
	{D: humanize.Week, Format: "%s %d días", DivBy: humanize.Day},
	{D: 2 * humanize.Week, Format: "%s 1 semana", DivBy: 1},
	{D: humanize.Month, Format: "%s %d semanas", DivBy: humanize.Week},
	{D: 2 * humanize.Month, Format: "%s 1 mes", DivBy: 1},
	{D: humanize.Year, Format: "%s %d meses", DivBy: humanize.Month},
	{D: 18 * humanize.Month, Format: "%s 1 año", DivBy: 1},
	{D: 2 * humanize.Year, Format: "%s 2 años", DivBy: 1},
	{D: humanize.LongTime, Format: "%s %d años", DivBy: humanize.Year},
	{D: math.MaxInt64, Format: "%s mucho tiempo", DivBy: 1},
}

// formatAge renders a feedback timestamp relative to now.
func formatAge(t time.Time, now time.Time) string {
	if t.IsZero() {
		return emptyCell
	}
	return humanize.CustomRelTime(t, now, "hace", "dentro de", spanishMagnitudes)
}

func formatStars(avg *float64) string {
	if avg == nil {
		return "sin calificaciones"
	}
	full := int(*avg)
	half := *avg-float64(full) >= 0.5
	stars := strings.Repeat("★", full)
	if half {
		stars += "½"
	}
	return printer.Sprintf("%s %.1f", stars, *avg)
}

func formatPercent(p float64) string {
	return printer.Sprintf("%.1f%%", p)
}

func formatCount(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func formatSeats(ev domain.Event) string {
	return printer.Sprintf("%d / %d", ev.AvailableSeats, ev.Capacity)
}

func imageLabel(ref domain.ImageRef) string {
	if ref.IsZero() {
		return "-"
	}
	if ref.IsDataURI() {
		head, _, _ := strings.Cut(string(ref), ";")
		return fmt.Sprintf("%s (%s)", strings.TrimPrefix(head, "data:"), humanize.Bytes(uint64(len(ref))))
	}
	return string(ref)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
