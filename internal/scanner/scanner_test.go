package scanner

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scan_kiosk/internal/logger"
)

type collector struct {
	mu     sync.Mutex
	values []string
}

func (c *collector) onScan(v string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, v)
	return true
}

func (c *collector) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.values...)
}

func TestLoop_LineSourceTrimsAndDropsEmpty(t *testing.T) {
	src := NewLineSource(strings.NewReader("ABC123\n\n   \n  XYZ \r\nlast"))
	c := &collector{}

	err := NewLoop(src, c.onScan, logger.Nop()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC123", "XYZ", "last"}, c.all())
}

// endless yields the same line forever.
type endless struct{}

func (endless) Read(p []byte) (int, error) {
	return copy(p, "RX-1001\n"), nil
}

func TestLineSource_CloseStopsReader(t *testing.T) {
	src := NewLineSource(endless{})
	v, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "RX-1001", v)

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())

	// the reader exits and closes its channel instead of blocking on a send
	require.Eventually(t, func() bool {
		_, err := src.Next(context.Background())
		return errors.Is(err, io.EOF)
	}, 2*time.Second, time.Millisecond)
}

func TestLoop_CancelClosesLineSource(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	src := NewLineSource(pr)
	c := &collector{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- NewLoop(src, c.onScan, nil).Run(ctx) }()

	_, err := pw.Write([]byte("RX-1002\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(c.all()) == 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}

	_, err = pw.Write([]byte("RX-1003\n"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

type failingSource struct{}

func (failingSource) Next(context.Context) (string, error) {
	return "", errors.New("device unplugged")
}

func TestLoop_SourceError(t *testing.T) {
	err := NewLoop(failingSource{}, (&collector{}).onScan, nil).Run(context.Background())
	assert.EqualError(t, err, "device unplugged")
}

func TestLoop_StopsOnCancel(t *testing.T) {
	src := NewChannelSource(1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- NewLoop(src, (&collector{}).onScan, nil).Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.ErrorIs(t, src.Push("late"), io.ErrClosedPipe)
}

func TestChannelSource_PushFull(t *testing.T) {
	src := NewChannelSource(1)
	require.NoError(t, src.Push("A"))
	assert.ErrorIs(t, src.Push("B"), ErrSourceBusy)

	v, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", v)

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
	_, err = src.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestMerge(t *testing.T) {
	injected := NewChannelSource(4)
	require.NoError(t, injected.Push("FROM-API"))
	require.NoError(t, injected.Close())

	c := &collector{}
	err := Merge(context.Background(), c.onScan, logger.Nop(),
		NewLineSource(strings.NewReader("FROM-WEDGE\n")),
		injected,
	)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"FROM-WEDGE", "FROM-API"}, c.all())
}

func TestMerge_ErrorStopsOthers(t *testing.T) {
	live := NewChannelSource(1)
	err := Merge(context.Background(), (&collector{}).onScan, nil, failingSource{}, live)
	assert.Error(t, err)
	assert.ErrorIs(t, live.Push("x"), io.ErrClosedPipe)
}
