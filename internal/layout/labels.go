package layout

import "strings"

// Objectives that take precedence over the free-text title on the grid.
var priorityObjectives = map[string]bool{
	"cours":  true,
	"examen": true,
}

// DisplayTitle picks the headline for a reservation tile.  Lessons and
// exams are shown as "<objective> - <group>"; anything else shows its
// title, then its objective, then a generic label.
func DisplayTitle(title, objective, group string) string {
	objective = strings.TrimSpace(objective)
	group = strings.TrimSpace(group)
	title = strings.TrimSpace(title)

	if objective != "" && priorityObjectives[strings.ToLower(objective)] {
		if group != "" {
			return objective + " - " + group
		}
		return objective
	}
	if title != "" {
		return title
	}
	if objective != "" {
		return objective
	}
	return "Reservation"
}

// SecondaryLabel joins objective and group for the tile's second line.
// Returns "" when both are empty.
func SecondaryLabel(objective, group string) string {
	objective = strings.TrimSpace(objective)
	group = strings.TrimSpace(group)
	switch {
	case objective != "" && group != "":
		return objective + " - " + group
	case objective != "":
		return objective
	default:
		return group
	}
}
