package model

// Day is one of the seven fixed weekday tags used by the timetable.
type Day string

const (
	Monday    Day = "Mon"
	Tuesday   Day = "Tue"
	Wednesday Day = "Wed"
	Thursday  Day = "Thu"
	Friday    Day = "Fri"
	Saturday  Day = "Sat"
	Sunday    Day = "Sun"
)

// Days lists the weekday tags in display order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// TimetableEntry is a single recurring class slot. Start and end are
// wall-clock times of day in "HH:MM" form; overlapping slots on the same
// day are allowed.
type TimetableEntry struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	Teacher   string `json:"teacher,omitempty"`
	Room      string `json:"room,omitempty"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Day       Day    `json:"day"`
	Color     string `json:"color"`
}
