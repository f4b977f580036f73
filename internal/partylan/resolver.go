package partylan

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"
)

// PartyLAN derives peer addresses from the CG-NAT block 100.64.0.0/10.
const (
	PoolBase = "100.64.0.0"
	PoolBits = 10
)

// maxOffsetRetries bounds the collision handling in Assign.
const maxOffsetRetries = 4

// ErrPoolExhausted is returned when no free address can be derived for a
// peer identifier within the retry bound.
var ErrPoolExhausted = errors.New("no available address in pool")

// Resolver deterministically maps 64-bit peer identifiers to addresses
// inside a fixed pool. The id/address mapping is owned by a single resolver
// instance and stays injective for its lifetime; nothing is shared between
// resolution sessions.
type Resolver struct {
	base     netip.Addr
	size     uint64
	idToAddr map[uint64]netip.Addr
	addrToID map[netip.Addr]uint64
	assigned []netip.Addr
}

// NewResolver creates a resolver over a pool of size addresses starting at
// base. The first and last slot of the pool are never handed out.
func NewResolver(base netip.Addr, size uint64) *Resolver {
	return &Resolver{
		base:     base,
		size:     size,
		idToAddr: make(map[uint64]netip.Addr),
		addrToID: make(map[netip.Addr]uint64),
	}
}

// NewCGNATResolver creates a resolver over the PartyLAN pool 100.64.0.0/10.
func NewCGNATResolver() *Resolver {
	return NewResolver(netip.MustParseAddr(PoolBase), 1<<(32-PoolBits))
}

// computeAddr derives the candidate address for a peer id at a given
// collision offset. Index 0 and size-1 are reserved and remap inward.
func (r *Resolver) computeAddr(peerID, offset uint64) netip.Addr {
	index := (peerID + offset) % r.size
	if index == 0 {
		index = 1
	} else if index == r.size-1 {
		index = r.size - 2
	}
	b := r.base.As4()
	v := binary.BigEndian.Uint32(b[:]) + uint32(index)
	binary.BigEndian.PutUint32(b[:], v)
	return netip.AddrFrom4(b)
}

// Assign returns the address for a peer id, assigning one on first use.
// Assigning the same id twice returns the same address. A collision with an
// already-assigned address bumps the offset, at most maxOffsetRetries times.
func (r *Resolver) Assign(peerID uint64) (netip.Addr, error) {
	if addr, ok := r.idToAddr[peerID]; ok {
		return addr, nil
	}
	for offset := uint64(0); offset < maxOffsetRetries; offset++ {
		addr := r.computeAddr(peerID, offset)
		if _, taken := r.addrToID[addr]; taken {
			continue
		}
		r.idToAddr[peerID] = addr
		r.addrToID[addr] = peerID
		r.assigned = append(r.assigned, addr)
		return addr, nil
	}
	return netip.Addr{}, fmt.Errorf("%w for peer %d", ErrPoolExhausted, peerID)
}

// Addresses returns all assigned addresses in first-assignment order.
func (r *Resolver) Addresses() []netip.Addr {
	out := make([]netip.Addr, len(r.assigned))
	copy(out, r.assigned)
	return out
}
