package animation

// Play starts periodic frame advancement. It is a no-op when already
// playing, without a sprite, or with fewer than two frames.
func (c *Controller) Play() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playLocked()
}

func (c *Controller) playLocked() bool {
	if c.playing || c.sprite == nil || len(c.sprite.Frames) <= 1 {
		return false
	}
	c.playing = true
	gen := c.tickGen
	c.ticker = c.clock.Every(FrameInterval(c.fps), func() { c.onTick(gen) })
	c.log.Debug("playback started", "fps", c.fps, "mode", string(c.mode))
	return true
}

// Stop cancels playback and resets the direction to forward. Calling it
// while stopped is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	c.tickGen++
	if c.playing {
		c.log.Debug("playback stopped", "frame", c.current)
	}
	c.playing = false
	c.direction = 1
}

// IsPlaying reports whether playback is running.
func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// onTick is the timer callback. Ticks from a ticker that has since been
// stopped are dropped, even when playback was restarted in between.
func (c *Controller) onTick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing || gen != c.tickGen {
		return
	}
	c.stepLocked()
}

// Tick advances playback by one step as the timer would, whether or not
// playback is running. It returns false when the step stopped playback
// instead of advancing (once mode at either end) or there is no sprite.
func (c *Controller) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sprite == nil {
		return false
	}
	return c.stepLocked()
}

func (c *Controller) stepLocked() bool {
	next, dir, ok := nextFrame(c.mode, c.current, c.direction, len(c.sprite.Frames))
	if !ok {
		c.stopLocked()
		return false
	}
	c.direction = dir
	c.switchLocked(next)
	return true
}

// SetFrameRate clamps fps into [1,60]. A running playback restarts at the
// new interval.
func (c *Controller) SetFrameRate(fps int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = ClampFrameRate(fps)
	if c.playing {
		c.stopLocked()
		c.playLocked()
	}
	return c.fps
}

// FrameRate returns the current frame rate.
func (c *Controller) FrameRate() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

// SetPlaybackMode switches mode; unknown modes are ignored and reported
// as false.
func (c *Controller) SetPlaybackMode(m PlaybackMode) bool {
	if !m.Valid() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
	return true
}

// PlaybackMode returns the current mode.
func (c *Controller) PlaybackMode() PlaybackMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Direction returns +1 when playing forward and -1 when a pingpong is
// on its way back.
func (c *Controller) Direction() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.direction
}
