package mapoverlay

import (
	"go.uber.org/zap"
)

// SetLogger sets the logger used by the console and every component it
// owns. A nil logger disables logging.
func (c *Console) SetLogger(log *zap.Logger) {
	c.logCustom = log != nil
	c.setLogger(log)
}

func (c *Console) setLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	c.log = log
	c.ctrl.SetLogger(log.Named("controller"))
	c.panels.SetLogger(log.Named("panels"))
	c.overlays.SetLogger(log.Named("overlays"))
}

// Logger returns the console's logger.
func (c *Console) Logger() *zap.Logger {
	return c.log
}

// SetDebugMode enables or disables debug logging. When enabled and no logger
// was set with SetLogger, a development logger writing to stderr is
// installed; disabling it restores the no-op logger.
func (c *Console) SetDebugMode(enabled bool) {
	c.debug = enabled
	if c.logCustom {
		return
	}
	if !enabled {
		c.setLogger(nil)
		return
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	c.setLogger(log.Named("mapoverlay"))
}

// DebugMode reports whether debug mode is on.
func (c *Console) DebugMode() bool {
	return c.debug
}
