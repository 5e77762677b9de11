// Package timeouts centralizes the context deadlines handlers apply
// to storage work, so the tiers stay consistent across features.
//
// Guidelines:
//   - Ping: health checks and connectivity probes
//   - Short: single-document reads and lookups
//   - Medium: list queries and single-transaction writes
//   - Long: multi-collection transactions and fan-out
package timeouts

import "time"

func Ping() time.Duration   { return 2 * time.Second }
func Short() time.Duration  { return 5 * time.Second }
func Medium() time.Duration { return 10 * time.Second }
func Long() time.Duration   { return 30 * time.Second }
