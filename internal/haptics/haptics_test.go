package haptics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorderConcurrent(t *testing.T) {
	var (
		r  Recorder
		wg sync.WaitGroup
	)

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			r.Impact(Light)
		}()

		go func() {
			defer wg.Done()
			r.Notify(Success, "ok")
		}()
	}

	wg.Wait()

	assert.Len(t, r.Impacts(), 50)
	assert.Len(t, r.Notifications(), 50)
	assert.Len(t, r.Outcomes(), 50)

	r.Reset()

	assert.Empty(t, r.Impacts())
	assert.Empty(t, r.Notifications())
}

func TestDesktopDisabledIsSilent(t *testing.T) {
	d := NewDesktop("zenbreath", false, false)

	// both channels are off so neither the speaker nor the notifier is touched
	d.Impact(Heavy)
	d.Notify(Error, "declined")

	assert.NoError(t, d.initErr)
}

var _ Haptics = Nop{}
var _ Haptics = (*Recorder)(nil)
var _ Haptics = (*Desktop)(nil)
