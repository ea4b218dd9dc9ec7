package spirv_test

import (
	"testing"

	"github.com/gogpu/shaderset/internal/spvtest"
	"github.com/gogpu/shaderset/shader"
	"github.com/gogpu/shaderset/spirv"
)

func benchModule(resources int) []byte {
	kinds := []shader.ResourceKind{
		shader.UniformBuffer,
		shader.TextureReadOnly,
		shader.Sampler,
		shader.StructuredBufferReadWrite,
	}
	bindings := make([]spvtest.Binding, resources)
	for i := range bindings {
		bindings[i] = spvtest.Binding{
			Set:     uint32(i / 8),
			Binding: uint32(i % 8),
			Kind:    kinds[i%len(kinds)],
			Unused:  i%5 == 4,
		}
	}
	return spvtest.Module(shader.StageFragment, bindings...)
}

var benchSizes = []struct {
	name      string
	resources int
}{
	{"small", 2},
	{"medium", 16},
	{"large", 64},
}

func BenchmarkParse(b *testing.B) {
	for _, bc := range benchSizes {
		b.Run(bc.name, func(b *testing.B) {
			data := benchModule(bc.resources)
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := spirv.Parse(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkReflect(b *testing.B) {
	for _, bc := range benchSizes {
		b.Run(bc.name, func(b *testing.B) {
			data := benchModule(bc.resources)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := spirv.Reflect(data, spirv.ReflectOptions{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkModuleBytes(b *testing.B) {
	m, err := spirv.Parse(benchModule(64))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Bytes()
	}
}
