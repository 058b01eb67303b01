// Package agefmt formats provider account ages for report embeds.
package agefmt

import "fmt"

// Days renders an age in whole days as "Ny Nm (D days)", dropping leading
// zero units.
func Days(days int) string {
	years := days / 365
	months := (days % 365) / 30
	switch {
	case years > 0:
		return fmt.Sprintf("%dy %dm (%d days)", years, months, days)
	case months > 0:
		return fmt.Sprintf("%dm (%d days)", months, days)
	default:
		return fmt.Sprintf("%d days", days)
	}
}
