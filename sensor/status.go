// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

import "math"

// Status is the snapshot exposed to status queries.
type Status struct {
	Temperature float64 `json:"temperature"`
}

// Status returns the last temperature rounded to 2 decimals. eventtime is
// accepted for the host's status query contract; no history is kept.
func (p *Poller) Status(eventtime float64) Status {
	return Status{Temperature: round2(p.Temperature())}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
