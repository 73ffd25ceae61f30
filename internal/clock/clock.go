package clock

import (
	"fmt"
	"time"
)

// 店舗の営業日はタイ時間（UTC+7）固定。サーバーのTZには依存しない。
var bangkok = time.FixedZone("ICT", 7*60*60)

// Clock は現在時刻を返す約束。テストでは固定時刻を注入する。
type Clock interface {
	Now() time.Time
}

// Bangkok は実時刻をタイ時間で返す Clock。
type Bangkok struct{}

func (Bangkok) Now() time.Time {
	return time.Now().In(bangkok)
}

// Fixed は常に同じ時刻を返す Clock（テスト用）。
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T.In(bangkok)
}

// Location はタイ時間のタイムゾーン。
func Location() *time.Location {
	return bangkok
}

// StartOfDay は t を含むタイ暦日の 00:00:00.000。
func StartOfDay(t time.Time) time.Time {
	t = t.In(bangkok)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, bangkok)
}

// EndOfDay は t を含むタイ暦日の 23:59:59.999。
func EndOfDay(t time.Time) time.Time {
	t = t.In(bangkok)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), bangkok)
}

// DayKey は注文番号などで使う YYYYMMDD のキー。
func DayKey(t time.Time) string {
	return t.In(bangkok).Format("20060102")
}

// MonthRange は t を含むタイ暦月の [開始, 終了] 境界。
func MonthRange(t time.Time) (time.Time, time.Time) {
	t = t.In(bangkok)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, bangkok)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end
}

// ParseMonth は "YYYY-MM" をタイ暦月の先頭時刻にする。
func ParseMonth(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", s, bangkok)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return t, nil
}

// ToCivilISO は保存・比較に使う固定オフセット表現（+07:00）。
func ToCivilISO(t time.Time) string {
	return t.In(bangkok).Format("2006-01-02T15:04:05.000-07:00")
}
