package cache_test

import (
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
)

var _ = Describe("Backends", func() {
	It("should list every backend", func() {
		Expect(cache.Backends()).To(ConsistOf(
			cache.BackendArena, cache.BackendDirectory, cache.BackendLRU))
	})

	It("should default to the arena cache", func() {
		store, err := cache.NewStore("", cache.Config{LinesPerSet: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(store).To(BeAssignableToTypeOf(&cache.Cache{}))
	})

	It("should reject unknown backends", func() {
		store, err := cache.NewStore("fifo", cache.Config{LinesPerSet: 1})
		Expect(err).To(MatchError(cache.ErrUnknownBackend))
		Expect(store).To(BeNil())
	})

	It("should reject invalid configurations for every backend", func() {
		for _, backend := range cache.Backends() {
			store, err := cache.NewStore(backend, cache.Config{})
			Expect(err).To(MatchError(cache.ErrInvalidConfig))
			Expect(store).To(BeNil())
		}
	})

	DescribeTable("agreement with the arena cache",
		func(s, e, b int) {
			config := cache.Config{SetIndexBits: s, LinesPerSet: e, BlockOffsetBits: b}

			stores := map[cache.Backend]cache.Store{}
			for _, backend := range cache.Backends() {
				store, err := cache.NewStore(backend, config)
				Expect(err).NotTo(HaveOccurred())
				stores[backend] = store
			}

			rng := rand.New(rand.NewPCG(uint64(s), uint64(e*100+b)))
			for i := 0; i < 4000; i++ {
				address := rng.Uint64N(1 << 12)
				expected := stores[cache.BackendArena].Access(address)

				Expect(stores[cache.BackendDirectory].Access(address)).
					To(Equal(expected), "directory, access %d at %#x", i, address)
				Expect(stores[cache.BackendLRU].Access(address)).
					To(Equal(expected), "lru, access %d at %#x", i, address)
			}
		},
		Entry("direct mapped, one set", 0, 1, 0),
		Entry("direct mapped", 1, 1, 1),
		Entry("two way", 2, 2, 3),
		Entry("two way, large blocks", 4, 2, 4),
		Entry("four way", 3, 4, 2),
		Entry("fully associative", 0, 8, 4),
	)

	Describe("DirectoryStore", func() {
		It("should hit within a block and evict the older block", func() {
			store, err := cache.NewDirectoryStore(cache.Config{
				SetIndexBits: 0, LinesPerSet: 2, BlockOffsetBits: 4,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(store.Access(0x00).Hit).To(BeFalse())
			Expect(store.Access(0x0F).Hit).To(BeTrue())
			Expect(store.Access(0x10).Hit).To(BeFalse())
			Expect(store.Access(0x00).Hit).To(BeTrue())

			result := store.Access(0x20)
			Expect(result.Eviction).To(BeTrue())
			Expect(store.Access(0x00).Hit).To(BeTrue())
			Expect(store.Access(0x10).Hit).To(BeFalse())
		})

		It("should forget everything on reset", func() {
			store, err := cache.NewDirectoryStore(cache.Config{LinesPerSet: 1})
			Expect(err).NotTo(HaveOccurred())
			store.Access(0x40)

			store.Reset()
			Expect(store.Access(0x40).Hit).To(BeFalse())
		})
	})

	Describe("SetLRUStore", func() {
		It("should forget everything on reset", func() {
			store, err := cache.NewSetLRUStore(cache.Config{SetIndexBits: 1, LinesPerSet: 2})
			Expect(err).NotTo(HaveOccurred())
			store.Access(0x1)
			Expect(store.Access(0x1).Hit).To(BeTrue())

			store.Reset()
			Expect(store.Access(0x1).Hit).To(BeFalse())
		})
	})
})
