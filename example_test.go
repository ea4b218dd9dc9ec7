package shaderset_test

import (
	"context"
	"fmt"
	"log"

	"github.com/gogpu/shaderset"
	"github.com/gogpu/shaderset/internal/spvtest"
	"github.com/gogpu/shaderset/shader"
)

func ExampleFactory_CreateVertexFragment() {
	vert := spvtest.Module(shader.StageVertex,
		spvtest.Binding{Name: "Globals", Set: 0, Binding: 0, Kind: shader.UniformBuffer},
	)
	frag := spvtest.Module(shader.StageFragment,
		spvtest.Binding{Name: "Globals", Set: 0, Binding: 0, Kind: shader.UniformBuffer},
		spvtest.Binding{Name: "albedo", Set: 0, Binding: 2, Kind: shader.TextureReadOnly},
	)

	// Both payloads are SPIR-V already, so no compiler is needed.
	f := shaderset.New(nil, shaderset.Options{})
	set, err := f.CreateVertexFragment(context.Background(),
		shaderset.StageDescription{Stage: shader.StageVertex, Payload: vert},
		shaderset.StageDescription{Stage: shader.StageFragment, Payload: frag},
	)
	if err != nil {
		log.Fatal(err)
	}
	for _, s := range set.Layout.Sets {
		for _, e := range s.Entries {
			fmt.Println(e)
		}
	}
	// Output:
	// 0:0 vdspv_0_0 uniform_buffer (vertex|fragment)
	// 0:1 <placeholder>
	// 0:2 vdspv_0_2 texture_read_only (fragment)
}
