// Package spirv reads, patches and reflects SPIR-V binaries.
//
// # Reading
//
// Parse decodes a module in either byte order into a flat
// instruction list:
//
//	m, err := spirv.Parse(bytecode)
//	if err != nil {
//		return err
//	}
//	for _, ep := range m.EntryPoints() {
//		fmt.Println(ep.Model, ep.Name)
//	}
//
// # Reflection
//
// Reflect reports the descriptor resources of one entry point. By
// default only resources statically reachable from the entry point's
// call tree are reported:
//
//	refl, err := spirv.Reflect(bytecode, spirv.ReflectOptions{})
//	for _, r := range refl.Resources {
//		fmt.Println(r) // "0:1 texture_read_only (fragment)"
//	}
//
// Resource kinds are derived from the storage class and decorations:
//   - Uniform + Block: uniform buffer
//   - StorageBuffer + Block, or Uniform + BufferBlock: structured buffer,
//     read-only when the variable or every member is NonWritable
//   - OpTypeImage with Sampled = 2: read-write texture, otherwise read-only
//   - OpTypeSampler: sampler
//
// Combined image samplers are rejected. Push constants are skipped.
//
// # Patching
//
// Module.SetName and Module.SetDecoration rewrite debug names and
// binding decorations in place; Module.Bytes re-encodes the result in
// little-endian order.
//
// # Building
//
// ModuleBuilder assembles modules programmatically, mainly for tests:
//
//	builder := spirv.NewModuleBuilder(spirv.Version1_0)
//	builder.AddCapability(spirv.CapabilityShader)
//	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
//	floatType := builder.AddTypeFloat(32)
//	vec4Type := builder.AddTypeVector(floatType, 4)
//	binary := builder.Build()
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
