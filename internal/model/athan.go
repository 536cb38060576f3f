package model

type Prayer struct {
	Key    string // "fajr", "dhuhr", …
	Name   string // "Subuh", "Dzuhur", …
	Time   string // "04:40"
	Period string // "AM" or "PM"
	Next   bool
}

type AthanPageData struct {
	Masjid    string
	City      string
	Date      string // "Rabu, 20 Maret 2024"
	Prayers   []Prayer
	Sunrise   string
	NextName  string
	NextTime  string
	Remaining string // "2h 15m"
}
