package heatmap

import "fmt"

// Percent is a return expressed in percent: 5 stands for +5%.
type Percent float64

// Pct converts a fractional return (0.05) into a Percent (5).
func Pct(fraction float64) Percent { return Percent(100 * fraction) }

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString always prints the sign, and "-" for a null value.
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}

// Mark returns a traffic-light mark for a benchmark move: three marks beyond ±2%, two beyond ±1%,
// one beyond ±0.5%, and a neutral mark otherwise.
func (p Percent) Mark() string {
	switch {
	case p >= 2:
		return "🟢🟢🟢"
	case p >= 1:
		return "🟢🟢"
	case p >= 0.5:
		return "🟢"
	case p <= -2:
		return "🔴🔴🔴"
	case p <= -1:
		return "🔴🔴"
	case p <= -0.5:
		return "🔴"
	default:
		return "➖"
	}
}
