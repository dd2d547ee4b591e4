package extract

import (
	"fmt"

	"poswatch/internal/logger"
)

// Strategy is one independent attempt at recovering entities from page
// content. Strategies must be pure: no I/O, no shared state.
type Strategy struct {
	Name string
	Run  func(Content) (Result, error)
}

// Chain tries strategies in priority order and stops at the first
// non-empty result. A strategy error (or panic) only disables that
// strategy for the run; "nothing found anywhere" is a valid empty
// result, not an error.
type Chain struct {
	strategies []Strategy
}

func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// DefaultChain orders strategies from most to least semantically
// precise: hydration JSON, then scored table parsing, then a free-text
// scan as the coverage fallback.
func DefaultChain() *Chain {
	return NewChain(
		Strategy{Name: "next-data", Run: NextDataStrategy},
		Strategy{Name: "table", Run: TableStrategy},
		Strategy{Name: "text", Run: TextStrategy},
	)
}

func (c *Chain) Extract(content Content) Result {
	for _, s := range c.strategies {
		res, err := runStrategy(s, content)
		if err != nil {
			logger.Warnf("extract: strategy %s failed, falling through: %v", s.Name, err)
			continue
		}
		if res.Empty() {
			logger.Debugf("extract: strategy %s produced nothing", s.Name)
			continue
		}
		res.Strategy = s.Name
		logger.Infof("extract: strategy %s yielded %d positions, %d orders",
			s.Name, len(res.Positions), len(res.Orders))
		return res
	}
	return Result{}
}

func runStrategy(s Strategy, content Content) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy %s panicked: %v", s.Name, r)
		}
	}()
	return s.Run(content)
}
