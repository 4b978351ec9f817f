/*
signal.go - Process-wide fire callback

PURPOSE:
  The external scheduler invokes a single, statically-registered entry point
  when an armed registration fires - potentially while nothing else of the
  application is running. The callback holds no state: it posts a fixed
  token to a named fire-event channel and returns. A listener elsewhere
  (notification layer, out of scope here) consumes the channel.

IDEMPOTENCE:
  Firing twice for the same slot posts the token twice; since the callback
  reads and mutates nothing, duplicate invocations are harmless.

SEE ALSO:
  - firesignal: The named-channel registry the token is posted to
*/
package alarm

import "github.com/warp/alarm-engine/firesignal"

const (
	// FireChannel is the well-known name of the fire-event channel.
	FireChannel = "alarm.fire"

	// FireToken is the fixed signal posted on every fire.
	FireToken = "fired"
)

// Fire is the process-wide fire callback. It delivers the fire token for
// the given scheduler identifier and nothing else; registering it with an
// ExactScheduler implementation happens once at startup.
func Fire(id int32) {
	firesignal.Post(FireChannel, firesignal.Signal{Token: FireToken, ID: id})
}
