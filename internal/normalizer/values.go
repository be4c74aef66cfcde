package normalizer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/statements-cli/internal/model"
)

// detachedDollarRe repairs currency symbols that HTML extraction split away
// from their number, e.g. "$ 71,074" or "71,074 $".
var (
	leadingDollarRe  = regexp.MustCompile(`^\$\s+`)
	trailingDollarRe = regexp.MustCompile(`\s*\$$`)
)

// ParseAmount converts one cell into a numeric Amount. Currency symbols and
// thousands separators are stripped, a parenthesized value is negative, and
// anything non-numeric is missing rather than zero or an error, so a
// statement with odd formatting degrades instead of aborting the run.
func ParseAmount(cell string) model.Amount {
	s := strings.TrimSpace(cell)
	if s == "" {
		return model.Amount{}
	}

	s = leadingDollarRe.ReplaceAllString(s, "$")
	s = trailingDollarRe.ReplaceAllString(s, "")

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Amount{}
	}
	if negative {
		v = -v
	}
	return model.Num(v)
}
