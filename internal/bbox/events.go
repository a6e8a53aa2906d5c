package bbox

// Connection is a subscription handle returned by Connect. Closing it stops
// future deliveries; closing twice is a no-op.
type Connection struct {
	cam *Camera
	id  int
}

// Connect registers a callback invoked synchronously once per processed
// frame with the new box list. Multiple independent subscribers are
// supported; frames read while no subscriber is connected are not
// processed at all.
func (c *Camera) Connect(fn func([]BoundingBox)) *Connection {
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return &Connection{cam: c, id: id}
}

// Close removes the subscription.
func (conn *Connection) Close() {
	if conn.cam == nil {
		return
	}
	delete(conn.cam.subs, conn.id)
	conn.cam = nil
}
