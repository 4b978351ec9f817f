package firesignal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/alarm-engine/firesignal"
)

func TestPost_DeliversToEverySubscriber(t *testing.T) {
	a, cancelA := firesignal.Subscribe("test.fanout")
	defer cancelA()
	b, cancelB := firesignal.Subscribe("test.fanout")
	defer cancelB()

	firesignal.Post("test.fanout", firesignal.Signal{Token: "fired", ID: 41})

	for _, ch := range []<-chan firesignal.Signal{a, b} {
		select {
		case sig := <-ch:
			assert.Equal(t, "fired", sig.Token)
			assert.Equal(t, int32(41), sig.ID)
		default:
			t.Fatal("signal not delivered")
		}
	}
}

func TestPost_WithoutSubscribersDoesNotBlock(t *testing.T) {
	// Completing at all is the assertion.
	firesignal.Post("test.empty", firesignal.Signal{Token: "fired"})
}

func TestPost_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	ch, cancel := firesignal.Subscribe("test.slow")
	defer cancel()

	// Overfill the subscriber buffer; the excess must be dropped silently.
	for i := 0; i < 64; i++ {
		firesignal.Post("test.slow", firesignal.Signal{Token: "fired", ID: int32(i)})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	require.Greater(t, received, 0)
	assert.Less(t, received, 64, "subscriber buffer must bound delivery")
}

func TestSubscribe_CancelStopsDelivery(t *testing.T) {
	ch, cancel := firesignal.Subscribe("test.cancel")
	cancel()
	cancel() // idempotent

	firesignal.Post("test.cancel", firesignal.Signal{Token: "fired"})

	select {
	case <-ch:
		t.Fatal("cancelled subscriber must not receive")
	default:
	}
}
