package registry_test

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/registry"
)

func BenchmarkRegistry_Upsert(b *testing.B) {
	reg := registry.New(registry.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	g := capability.MustNewGildings(capability.TierCount{Tier: "silver", Count: 2})
	views := map[capability.Tag]capability.View{
		capability.Gildable: capability.MustNewGildableView(true, 2, g),
	}
	fields := map[string]any{"title": "bench"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := reg.Upsert(fmt.Sprintf("t3_%d", i%1000), fields, views); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRegistry_Query(b *testing.B) {
	reg := registry.New(registry.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	for i := range 1000 {
		if _, err := reg.Upsert(fmt.Sprintf("t3_%d", i), nil, nil); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n := 0
		for range reg.Query(registry.All()) {
			n++
		}
		if n != 1000 {
			b.Fatalf("got %d records", n)
		}
	}
}
