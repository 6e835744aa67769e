package patient

import "time"

type Stats struct {
	Total    int `json:"total"`
	Sent     int `json:"sent"`
	Pending  int `json:"pending"`
	Overdue  int `json:"overdue"`
	Upcoming int `json:"upcoming"`
}

// Summarize counts reminder states. Pending rows with an unreadable date are
// counted as pending only.
func Summarize(rows []Patient, today time.Time) Stats {
	s := Stats{Total: len(rows)}
	for _, p := range rows {
		if p.Sent() {
			s.Sent++
			continue
		}
		s.Pending++
		overdue, err := p.Overdue(today)
		if err != nil {
			continue
		}
		if overdue {
			s.Overdue++
		} else {
			s.Upcoming++
		}
	}
	return s
}
