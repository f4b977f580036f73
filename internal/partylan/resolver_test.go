package partylan

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallResolver() *Resolver {
	return NewResolver(netip.MustParseAddr("10.0.0.0"), 10)
}

func TestAssignDeterministic(t *testing.T) {
	r := smallResolver()

	first, err := r.Assign(12345)
	require.NoError(t, err)
	second, err := r.Assign(12345)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, r.Addresses(), 1)
}

func TestAssignEdgeSlots(t *testing.T) {
	r := smallResolver()

	// Raw index 0 remaps to 1.
	addr, err := r.Assign(0)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("10.0.0.1"), addr)

	// Raw index size-1 remaps to size-2.
	addr, err = r.Assign(9)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("10.0.0.8"), addr)
}

func TestAssignCollisionOffsets(t *testing.T) {
	r := smallResolver()

	// All of these hit raw index 2; each collision bumps the offset.
	a, err := r.Assign(2)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("10.0.0.2"), a)

	b, err := r.Assign(12)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("10.0.0.3"), b)

	c, err := r.Assign(22)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("10.0.0.4"), c)

	d, err := r.Assign(32)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("10.0.0.5"), d)

	// Offsets 0..3 are all taken now.
	_, err = r.Assign(42)
	require.ErrorIs(t, err, ErrPoolExhausted)
}

func TestAssignInjective(t *testing.T) {
	r := NewResolver(netip.MustParseAddr("10.0.0.0"), 1<<16)

	seen := make(map[netip.Addr]uint64)
	for id := uint64(100); id < 200; id++ {
		addr, err := r.Assign(id)
		require.NoError(t, err)
		if prev, dup := seen[addr]; dup {
			t.Fatalf("address %s assigned to both %d and %d", addr, prev, id)
		}
		seen[addr] = id
	}
}

func TestAddressesOrder(t *testing.T) {
	r := smallResolver()

	for _, id := range []uint64{7, 3, 5} {
		_, err := r.Assign(id)
		require.NoError(t, err)
	}

	want := []netip.Addr{
		netip.MustParseAddr("10.0.0.7"),
		netip.MustParseAddr("10.0.0.3"),
		netip.MustParseAddr("10.0.0.5"),
	}
	assert.Equal(t, want, r.Addresses())
}

func TestResolverSessionsIsolated(t *testing.T) {
	// Two resolvers never see each other's assignments.
	a := smallResolver()
	b := smallResolver()

	addrA, err := a.Assign(2)
	require.NoError(t, err)
	addrB, err := b.Assign(12)
	require.NoError(t, err)

	// In a shared session 12 would collide with 2 and shift; isolated it
	// lands on the same slot.
	assert.Equal(t, netip.MustParseAddr("10.0.0.2"), addrA)
	assert.Equal(t, netip.MustParseAddr("10.0.0.2"), addrB)
}

func TestCGNATResolverPool(t *testing.T) {
	r := NewCGNATResolver()

	addr, err := r.Assign(76561197279154321)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("100.103.16.145"), addr)

	pool := netip.MustParsePrefix("100.64.0.0/10")
	assert.True(t, pool.Contains(addr))
}
