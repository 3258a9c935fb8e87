package sim_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/trace"
)

const traceDir = "../traces"

var _ = Describe("Reference traces", func() {
	replay := func(
		backend cache.Backend,
		config cache.Config,
		name string,
		opts ...sim.SimulatorOption,
	) sim.Stats {
		path := filepath.Join(traceDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			Skip("reference trace " + name + " is not available")
		}

		store, err := cache.NewStore(backend, config)
		Expect(err).NotTo(HaveOccurred())

		f, err := trace.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = f.Close() }()

		stats, err := sim.Simulate(store, f, opts...)
		Expect(err).NotTo(HaveOccurred())
		return stats
	}

	for _, backend := range cache.Backends() {
		DescribeTable("summary with the "+string(backend)+" backend",
			func(s, e, b int, name string, hits, misses, evictions int) {
				config := cache.Config{SetIndexBits: s, LinesPerSet: e, BlockOffsetBits: b}

				stats := replay(backend, config, name)
				Expect(stats.Hits).To(Equal(uint64(hits)))
				Expect(stats.Misses).To(Equal(uint64(misses)))
				Expect(stats.Evictions).To(Equal(uint64(evictions)))
			},
			Entry("trace01", 1, 1, 1, "trace01.dat", 9, 8, 6),
			Entry("trace02", 4, 2, 4, "trace02.dat", 4, 5, 2),
			Entry("trace03", 2, 1, 4, "trace03.dat", 2, 3, 1),
			Entry("trace04", 5, 1, 5, "trace04.dat", 265189, 21775, 21743),
		)
	}

	It("should print the verbose log for trace02", func() {
		var out bytes.Buffer
		config := cache.Config{SetIndexBits: 4, LinesPerSet: 2, BlockOffsetBits: 4}

		stats := replay(cache.BackendArena, config, "trace02.dat",
			sim.WithSink(sim.NewTextSink(&out)))

		Expect(out.String()).To(Equal(
			"L 10,1 miss\n" +
				"M 20,1 miss hit\n" +
				"L 22,1 hit\n" +
				"S 18,1 hit\n" +
				"L 110,1 miss\n" +
				"L 210,1 miss eviction\n" +
				"M 12,1 miss eviction hit\n"))
		Expect(stats.String()).To(Equal("hits:4 misses:5 evictions:2"))
	})
})
