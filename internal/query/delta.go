package query

import "fmt"

// deltaExpr builds the computed delta column for one counter: current value
// minus the previous value for the same player in (ts, id) order, evaluated
// as a window function so no self-join is needed.
//
// NULL on either side counts as 0, and the first row for a player has no
// predecessor so its delta is 0 (LAG comes back NULL and coalesces to the
// current value). With clamp the delta is floored at 0, hiding counter
// resets.
//
// col must come from the registry, never from user input.
func deltaExpr(col string, clamp bool) string {
	curr := fmt.Sprintf("COALESCE(s.%s, 0)", col)
	prev := fmt.Sprintf("COALESCE(LAG(s.%s) OVER (PARTITION BY s.player_id ORDER BY s.ts, s.id), %s)", col, curr)
	expr := fmt.Sprintf("(%s - %s)", curr, prev)
	if clamp {
		expr = fmt.Sprintf("MAX(%s, 0)", expr)
	}
	return fmt.Sprintf("%s AS delta_%s", expr, col)
}
