package cachefront

// ready is the connection gate, evaluated before every store call.
//
//	(false, nil)             no store configured: caller returns its neutral value
//	(false, ErrNotConnected) store configured but not open
//	(true, nil)              go ahead
func (c *Cache) ready(op, key string) (bool, error) {
	if c.store == nil {
		c.trace("bypassed", Fields{"op": op, "key": key})
		c.hooks.Bypassed(op)
		return false, nil
	}
	if !c.store.Open() {
		return false, opErr(op, key, ErrNotConnected)
	}
	return true, nil
}

// trace emits debug output only when Options.Logging is set.
func (c *Cache) trace(msg string, f Fields) {
	if c.logging {
		c.log.Debug(msg, f)
	}
}
