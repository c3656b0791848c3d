package usage

// Counter is the per-(provider, calendar-day) usage counter. Day is a
// YYYY-MM-DD string in UTC. Mutated only through the usage governor; Used
// never exceeds Limit.
type Counter struct {
	Provider string `json:"provider"`
	Day      string `json:"day"`
	Used     int    `json:"used"`
	Limit    int    `json:"limit"`
}

// Remaining calls available today.
func (c *Counter) Remaining() int {
	r := c.Limit - c.Used
	if r < 0 {
		return 0
	}
	return r
}
