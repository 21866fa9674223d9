package sessionkit

import (
	"context"
	"time"
)

// startRevalidator launches the periodic re-check loop. The loop only
// issues a check while the controller is authenticated; an idle or
// signed-out controller ticks without touching the backend.
func (c *Controller) startRevalidator() {
	if !c.cfg.Revalidate.Enabled {
		return
	}

	c.revalStop = make(chan struct{})
	c.revalWG.Add(1)

	go func() {
		defer c.revalWG.Done()

		ticker := time.NewTicker(c.cfg.Revalidate.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.metricInc(MetricRevalidateTick)
				c.mu.Lock()
				authenticated := c.state.Phase == PhaseAuthenticated
				c.mu.Unlock()
				if !authenticated {
					continue
				}
				c.CheckAuth(context.Background())
			case <-c.revalStop:
				return
			}
		}
	}()
}
