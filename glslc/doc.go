// Package glslc compiles GLSL to SPIR-V through an external compiler.
//
// A compilation goes through three steps:
//
//   - NewRequest encodes the source, file name and macros to single
//     bytes and maps the stage to a compiler shader kind. Nothing is
//     sent to the compiler when a field cannot be encoded.
//   - A Service runs the compiler. ExecService runs the glslc
//     executable; tests and embedders can plug in their own.
//   - Client calls the service, copies the bytecode or diagnostic out of
//     the response and releases it before returning.
//
// Example:
//
//	client := glslc.NewClient(glslc.NewExecService())
//	opts := glslc.NewCompileOptions(false, glslc.MacroDefinition{Name: "USE_FOG"})
//	res, err := client.CompileGLSL(ctx, source, "sky.frag", shader.StageFragment, opts)
//	if err != nil {
//		var cerr *glslc.CompilationError
//		if errors.As(err, &cerr) {
//			fmt.Println(cerr.Diagnostic)
//		}
//		return err
//	}
//	use(res.Bytecode)
package glslc
