package harvest

import "fmt"

// StopRule reports whether to scroll again after a read. scrolls is the
// number of scrolls already done, previous and current the item counts of
// the last two reads.
type StopRule func(scrolls, previous, current int) bool

// ThresholdRule keeps scrolling while the page shows at least
// step*(scrolls+1) items, so the bar rises by step on every pass.
func ThresholdRule(step int) StopRule {
	if step <= 0 {
		step = 10
	}
	return func(scrolls, previous, current int) bool {
		return current >= step*(scrolls+1)
	}
}

// GrowthRule keeps scrolling while each read shows more items than the last
func GrowthRule() StopRule {
	return func(scrolls, previous, current int) bool {
		return current > previous
	}
}

// ParseStopRule maps a configured rule name to a StopRule
func ParseStopRule(name string, step int) (StopRule, error) {
	switch name {
	case "threshold", "":
		return ThresholdRule(step), nil
	case "growth":
		return GrowthRule(), nil
	default:
		return nil, fmt.Errorf("unknown stop rule: %s", name)
	}
}
