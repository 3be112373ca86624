package flows

import "fmt"

// Comparator is one of the five relational operators a characteristic can
// apply between an observed value and its configured threshold.
type Comparator uint8

const (
	Greater Comparator = iota + 1
	GreaterEqual
	Equal
	LessEqual
	Less
)

var comparatorSymbols = map[string]Comparator{
	">":  Greater,
	">=": GreaterEqual,
	"=":  Equal,
	"<=": LessEqual,
	"<":  Less,
}

// ParseComparator looks up the comparator for symbol.
func ParseComparator(symbol string) (Comparator, error) {
	c, ok := comparatorSymbols[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: the operator symbol %q is not recognized", ErrConfig, symbol)
	}
	return c, nil
}

// Compare reports whether a <op> b.
func (c Comparator) Compare(a, b float64) bool {
	switch c {
	case Greater:
		return a > b
	case GreaterEqual:
		return a >= b
	case Equal:
		return a == b
	case LessEqual:
		return a <= b
	case Less:
		return a < b
	}
	return false
}

func (c Comparator) String() string {
	switch c {
	case Greater:
		return ">"
	case GreaterEqual:
		return ">="
	case Equal:
		return "="
	case LessEqual:
		return "<="
	case Less:
		return "<"
	}
	return fmt.Sprintf("Comparator(%d)", uint8(c))
}
