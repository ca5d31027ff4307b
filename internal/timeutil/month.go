package timeutil

import "time"

// MonthStart возвращает первую секунду календарного месяца, в котором
// находится t, в той же временной зоне.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthEnd возвращает последнюю секунду месяца: начало следующего месяца
// минус одна секунда. Декабрь корректно переходит в январь следующего года.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, 0).Add(-time.Second)
}

// SecondsInMonth возвращает количество секунд между началом и концом месяца.
// Конец месяца включительный (минус одна секунда), поэтому для месяца из
// 30 дней результат равен 30*86400 - 1.
func SecondsInMonth(t time.Time) int64 {
	return int64(MonthEnd(t).Sub(MonthStart(t)) / time.Second)
}
