package finanzas

import "time"

const horasPorDia = 24

// Fecha truncates t to its calendar date at UTC midnight.
func Fecha(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NuevaFecha builds a UTC calendar date.
func NuevaFecha(anio int, mes time.Month, dia int) time.Time {
	return time.Date(anio, mes, dia, 0, 0, 0, 0, time.UTC)
}

// DiasEntre returns the whole days between the calendar dates of a and b.
// Negative when b precedes a.
func DiasEntre(a, b time.Time) int {
	return int(Fecha(b).Sub(Fecha(a)).Hours() / horasPorDia)
}

// UltimoDiaDelMes returns the last day-of-month for the given year/month.
func UltimoDiaDelMes(anio int, mes time.Month) int {
	return time.Date(anio, mes+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SumarMeses moves base forward by n calendar months landing on dia, clamped
// to the last day of the target month (31 in February becomes 28 or 29).
func SumarMeses(base time.Time, n, dia int) time.Time {
	primero := time.Date(base.Year(), base.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if ultimo := UltimoDiaDelMes(primero.Year(), primero.Month()); dia > ultimo {
		dia = ultimo
	}
	return primero.AddDate(0, 0, dia-1)
}

// DiaHabilAnterior moves a Saturday back one day and a Sunday back two.
// Holidays are not considered.
func DiaHabilAnterior(t time.Time) time.Time {
	t = Fecha(t)
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, -1)
	case time.Sunday:
		return t.AddDate(0, 0, -2)
	}
	return t
}
