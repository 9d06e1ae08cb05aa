package transport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPeerTable(t *testing.T) {
	pt := newPeerTable(3)
	for i := 0; i < maxSlots; i++ {
		id, err := pt.acquire()
		require.NoError(t, err)
		require.Equal(t, uint8(3), id.Server())
		require.Equal(t, uint8(i), id.Slot())
	}
	_, err := pt.acquire()
	require.ErrorIs(t, err, ErrPeerOverflow)
	require.Equal(t, maxSlots, pt.len())

	pt.release(NewPeerID(3, 10))
	pt.release(NewPeerID(3, 4))
	id, err := pt.acquire()
	require.NoError(t, err)
	require.Equal(t, NewPeerID(3, 4), id)

	pt.release(NewPeerID(3, 4))
	pt.release(NewPeerID(3, 4))
	require.Equal(t, maxSlots-2, pt.len())
}

func TestPeerIDString(t *testing.T) {
	require.Equal(t, "258", NewPeerID(1, 2).String())
}
