package uoled

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"uoled/pkg/proto"
)

// fakeSerial acknowledges every command with ACK unless scripted replies are
// queued, and records writes and acknowledgements in order.
type fakeSerial struct {
	mu       sync.Mutex
	open     bool
	opts     *proto.Options
	openErr  error
	writeErr error
	silent   bool
	dirty    bool
	replies  [][]byte
	writes   [][]byte
	events   []string
}

func (f *fakeSerial) Open(opts *proto.Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.openErr != nil {
		return f.openErr
	}
	f.open = true
	f.opts = opts
	f.events = append(f.events, "open")
	return nil
}

func (f *fakeSerial) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.open = false
	f.events = append(f.events, "close")
	return nil
}

func (f *fakeSerial) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *fakeSerial) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.writes = append(f.writes, append([]byte(nil), p...))
	f.events = append(f.events, fmt.Sprintf("w:%x", p))
	f.dirty = true
	return len(p), nil
}

func (f *fakeSerial) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.replies) > 0 {
		r := f.replies[0]
		f.replies = f.replies[1:]
		f.dirty = false
		f.events = append(f.events, "reply")
		return copy(p, r), nil
	}

	if f.dirty && !f.silent {
		f.dirty = false
		f.events = append(f.events, "ack")
		p[0] = ACK
		return 1, nil
	}

	f.mu.Unlock()
	time.Sleep(time.Millisecond)
	f.mu.Lock()
	return 0, nil
}

func (f *fakeSerial) reply(bs ...[]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, bs...)
}

func (f *fakeSerial) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = nil
	f.events = nil
}

func (f *fakeSerial) wire() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []byte
	for _, w := range f.writes {
		all = append(all, w...)
	}
	return all
}

func newTestDevice(t *testing.T, opts ...Option) (*Device, *fakeSerial) {
	t.Helper()

	fake := &fakeSerial{}
	opts = append([]Option{WithAckTimeout(time.Second)}, opts...)
	dev, err := New(testCtx(t), fake, zaptest.NewLogger(t), opts...)
	require.NoError(t, err)
	require.True(t, dev.Ready())

	fake.reset()
	return dev, fake
}
