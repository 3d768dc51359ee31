package division

import (
	"fmt"
	"strings"
	"time"
)

// Division groups players that are scheduled against each other.
type Division struct {
	ID        int64
	Name      string
	DayOfWeek time.Weekday
	Active    bool
}

func (d Division) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("division name is required")
	}
	if d.DayOfWeek < time.Sunday || d.DayOfWeek > time.Saturday {
		return fmt.Errorf("division day of week must be within 0..6")
	}

	return nil
}

type Patch struct {
	Name      *string
	DayOfWeek *time.Weekday
	Active    *bool
}

func (p Patch) Apply(d Division) Division {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.DayOfWeek != nil {
		d.DayOfWeek = *p.DayOfWeek
	}
	if p.Active != nil {
		d.Active = *p.Active
	}
	return d
}
