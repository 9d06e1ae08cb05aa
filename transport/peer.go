package transport

import (
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
)

// maxSlots is the number of client slots per server; slot 0xFF is reserved.
const maxSlots = 0xFF

// PeerID identifies a registered client: the server id in the high byte and
// the client slot in the low byte.
type PeerID uint16

// NewPeerID combines a server id and a client slot.
func NewPeerID(server, slot uint8) PeerID {
	return PeerID(uint16(server)<<8 | uint16(slot))
}

// Server returns the server id half.
func (p PeerID) Server() uint8 { return uint8(p >> 8) }

// Slot returns the client slot half.
func (p PeerID) Slot() uint8 { return uint8(p) }

func (p PeerID) String() string {
	return strconv.FormatUint(uint64(p), 10)
}

// peerTable hands out the lowest free slot and takes it back on disconnect.
type peerTable struct {
	mu     sync.Mutex
	server uint8
	used   [maxSlots]bool
	count  int
}

func newPeerTable(server uint8) *peerTable {
	return &peerTable{server: server}
}

func (t *peerTable) acquire() (PeerID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for slot := range t.used {
		if !t.used[slot] {
			t.used[slot] = true
			t.count++
			return NewPeerID(t.server, uint8(slot)), nil
		}
	}
	return 0, errors.Wrapf(ErrPeerOverflow, "server %d has %d peers", t.server, t.count)
}

func (t *peerTable) release(id PeerID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	slot := int(id.Slot())
	if slot < maxSlots && t.used[slot] {
		t.used[slot] = false
		t.count--
	}
}

func (t *peerTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}
