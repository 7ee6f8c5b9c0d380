package report

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/joshuapare/dtbmods/pkg/types"
)

// DeviceRepr renders a device record as
//
//	device(name='serial@9000', compatible=['acme,uart', 'ns16550a'])
func DeviceRepr(dev types.Device) string {
	quoted := make([]string, len(dev.Compatible))
	for i, c := range dev.Compatible {
		quoted[i] = Quote(c)
	}
	return fmt.Sprintf("device(name=%s, compatible=[%s])", Quote(dev.Name), strings.Join(quoted, ", "))
}

// Quote renders s as a single-quoted string literal. Double quotes are used
// instead when s contains a single quote and no double quote. Backslashes,
// the enclosing quote, and non-printable characters are escaped.
func Quote(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteRune(q)
	for _, r := range s {
		switch {
		case r == q || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r < 0x80 || unicode.IsPrint(r):
			b.WriteRune(r)
		case r <= 0xff:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r <= 0xffff:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			fmt.Fprintf(&b, `\U%08x`, r)
		}
	}
	b.WriteRune(q)
	return b.String()
}
