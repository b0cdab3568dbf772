package ddl

import (
	"fmt"
	"strings"
)

// AccessorName produces the stable identifier under which the compiled
// accessor for (table, version) is registered and looked up.
//
// Table names may contain arbitrary bytes, so the mangling must be
// deterministic and collision-free across processes: bytes in [A-Za-z0-9]
// pass through, every other byte (underscore included) becomes "_" plus
// two uppercase hex digits. Because the escape lead-in itself is escaped,
// distinct table names can never mangle to the same identifier.
func AccessorName(table string, version int) string {
	var b strings.Builder
	b.WriteString("riak_ql_table_")
	for i := 0; i < len(table); i++ {
		c := table[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02X", c)
		}
	}
	fmt.Fprintf(&b, "_v%d", version)
	return b.String()
}
