// Package sdg holds the 17 UN Sustainable Development Goals that projects are
// tagged with. Goal numbers are 1-based and must stay in [1,17].
package sdg

import "fmt"

// Count is the number of Sustainable Development Goals.
const Count = 17

var names = [Count]string{
	"No Poverty",
	"Zero Hunger",
	"Good Health and Well-being",
	"Quality Education",
	"Gender Equality",
	"Clean Water and Sanitation",
	"Affordable and Clean Energy",
	"Decent Work and Economic Growth",
	"Industry, Innovation and Infrastructure",
	"Reduced Inequality",
	"Sustainable Cities and Communities",
	"Responsible Consumption and Production",
	"Climate Action",
	"Life Below Water",
	"Life on Land",
	"Peace and Justice Strong Institutions",
	"Partnerships to achieve the Goal",
}

// Valid reports whether n is a goal number in [1,17].
func Valid(n int) bool {
	return n >= 1 && n <= Count
}

// Name returns the goal's short name, or "" for an out-of-range number.
func Name(n int) string {
	if !Valid(n) {
		return ""
	}
	return names[n-1]
}

// Goal is one SDG for display in pickers and filters.
type Goal struct {
	Number int
	Name   string
	Label  string // "13. Climate Action"
}

// Goals returns all 17 goals in numeric order.
func Goals() []Goal {
	out := make([]Goal, Count)
	for i := range names {
		out[i] = Goal{
			Number: i + 1,
			Name:   names[i],
			Label:  fmt.Sprintf("%d. %s", i+1, names[i]),
		}
	}
	return out
}
