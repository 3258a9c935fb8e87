package cache

// Address is a memory address split into its cache fields.
//
//	address = [ tag | set index | block offset ]
type Address struct {
	Tag         uint64
	SetIndex    uint64
	BlockOffset uint64
}

// Decode splits address according to the geometry in config. It is defined
// for every address as long as s + b <= 64.
func Decode(address uint64, config Config) Address {
	s := uint(config.SetIndexBits)
	b := uint(config.BlockOffsetBits)

	return Address{
		Tag:         address >> (s + b),
		SetIndex:    (address >> b) & lowMask(s),
		BlockOffset: address & lowMask(b),
	}
}

// lowMask returns a mask with the lowest bits set.
func lowMask(bits uint) uint64 {
	if bits >= AddressLength {
		return ^uint64(0)
	}
	return 1<<bits - 1
}
