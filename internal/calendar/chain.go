package calendar

import "time"

// Field names the two ends of a task date range.
type Field string

const (
	FieldStart  Field = "actual"
	FieldFinish Field = "finishDate"
)

// Chain drives the two-step range picking flow: choosing the start date
// immediately advances to the finish step with the start as the related
// endpoint; choosing the finish date completes the chain.
type Chain struct {
	Active  bool
	Field   Field
	Current string
	Related string

	start  string
	finish string
}

// NewChain opens the picker on the requested field with the form's current
// values.
func NewChain(field Field, start, finish string) *Chain {
	c := &Chain{Active: true, Field: field, start: start, finish: finish}
	if field == FieldStart {
		c.Current, c.Related = start, finish
	} else {
		c.Current, c.Related = finish, start
	}
	return c
}

// Pick records a date for the active field. On the start field the chain
// stays open pointed at the finish field, pre-seeded with the existing
// finish value (or the just-picked date when none is set). On the finish
// field the chain closes.
func (c *Chain) Pick(date string) {
	if !c.Active {
		return
	}
	if c.Field == FieldStart {
		c.start = date
		c.Field = FieldFinish
		c.Current = c.finish
		if c.Current == "" {
			c.Current = date
		}
		c.Related = date
		return
	}
	c.finish = date
	c.Current = date
	c.Active = false
}

// PickToday selects today's date for the active field, following the same
// chaining rules as Pick.
func (c *Chain) PickToday(now time.Time) {
	c.Pick(now.Format(dateLayout))
}

// Dates returns the chosen start and finish values.
func (c *Chain) Dates() (start, finish string) {
	return c.start, c.finish
}

// Close abandons the picker without touching the values chosen so far.
func (c *Chain) Close() {
	c.Active = false
}
