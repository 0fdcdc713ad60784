package game

import "time"

// TurnAt возвращает номер хода в момент now: floor((now-start)/delay)+1.
// До старта значение <= 0.
func TurnAt(start, now time.Time, delay time.Duration) int {
	elapsed := now.Sub(start)
	n := elapsed / delay
	if elapsed < 0 && elapsed%delay != 0 {
		n--
	}
	return int(n) + 1
}

// TurnEnd - момент, когда ход turn заканчивается и начинается turn+1
func TurnEnd(start time.Time, turn int, delay time.Duration) time.Time {
	return start.Add(time.Duration(turn) * delay)
}

// UnixMilli отдает -1 для неустановленного времени, как ожидает клиент
func UnixMilli(t time.Time) int64 {
	if t.IsZero() {
		return -1
	}
	return t.UnixMilli()
}
