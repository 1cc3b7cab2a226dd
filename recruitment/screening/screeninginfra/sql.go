package screeninginfra

import (
	"strconv"
	"strings"
)

func itoa(n int) string { return strconv.Itoa(n) }

// prefixed qualifies every analysis column with a table alias
func prefixed(alias string) string {
	cols := strings.Split(analysisColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
