package trial

import "time"

// Length — длительность пробного периода в днях.
const Length = 3

// Day — граница одного дня пробного периода. Считаются полные 24 часа
// по настенным часам, а не календарные или рабочие дни.
const Day = 24 * time.Hour

// DaysRemaining возвращает количество оставшихся дней пробного периода,
// начавшегося в start, на момент now. Результат всегда в диапазоне [0, Length].
func DaysRemaining(now, start time.Time) int {
	// Часы клиента могут отставать: до начала окна период считается полным
	if now.Before(start) {
		return Length
	}

	elapsed := int(now.Sub(start) / Day)
	remaining := Length - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// EndsAt возвращает момент, когда пробный период, начавшийся в start, истекает.
func EndsAt(start time.Time) time.Time {
	return start.Add(Length * Day)
}
