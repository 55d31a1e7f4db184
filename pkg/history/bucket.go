package history

// Bucket groups entries by age. Each bucket scales the use count of its
// entries, so a command used twice an hour ago outranks one used six times
// last month.
type Bucket int

const (
	LastHour Bucket = iota
	LastDay
	LastWeek
	Older
)

const (
	hour = 60 * 60
	day  = 24 * hour
	week = 7 * day
)

// BucketFor classifies an entry last used at ts, with now in Unix seconds.
// Timestamps in the future count as just used.
func BucketFor(now, ts int64) Bucket {
	age := now - ts
	switch {
	case age < hour:
		return LastHour
	case age < day:
		return LastDay
	case age < week:
		return LastWeek
	default:
		return Older
	}
}

// Weight is the multiplier applied to the use count.
func (b Bucket) Weight() float64 {
	switch b {
	case LastHour:
		return 4
	case LastDay:
		return 2
	case LastWeek:
		return 0.5
	default:
		return 0.25
	}
}

func (b Bucket) String() string {
	switch b {
	case LastHour:
		return "last hour"
	case LastDay:
		return "last day"
	case LastWeek:
		return "last week"
	default:
		return "older"
	}
}
