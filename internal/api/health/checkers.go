package health

import (
	"context"
	"fmt"
)

// RunningChecker reports whether a background component is running.
type RunningChecker struct {
	name      string
	isRunning func() bool
}

// NewRunningChecker creates a checker named name backed by isRunning.
func NewRunningChecker(name string, isRunning func() bool) *RunningChecker {
	return &RunningChecker{name: name, isRunning: isRunning}
}

// Name returns the checker name.
func (c *RunningChecker) Name() string {
	return c.name
}

// Check fails when the component is not running.
func (c *RunningChecker) Check(ctx context.Context) error {
	if c.isRunning == nil || !c.isRunning() {
		return fmt.Errorf("%s not running", c.name)
	}
	return nil
}

// CatalogChecker fails when the threat catalog has no templates; the feed
// cannot produce entries without one.
type CatalogChecker struct {
	size func() int
}

// NewCatalogChecker creates a catalog checker. size returns the number of
// loaded threat templates.
func NewCatalogChecker(size func() int) *CatalogChecker {
	return &CatalogChecker{size: size}
}

// Name returns the checker name.
func (c *CatalogChecker) Name() string {
	return "catalog"
}

// Check verifies the catalog is populated.
func (c *CatalogChecker) Check(ctx context.Context) error {
	if c.size == nil {
		return fmt.Errorf("catalog not configured")
	}
	if c.size() == 0 {
		return fmt.Errorf("catalog is empty")
	}
	return nil
}
