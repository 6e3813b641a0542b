// Package pkg provides the libraries behind clustermap, a constrained 2D
// graph layout engine.
//
// # Overview
//
// Clustermap places the nodes of a node-link graph by minimizing stress, the
// squared relative error between geometric and graph-theoretic distances,
// while honoring hard linear constraints: user separations and alignments,
// group containment, and automatically generated non-overlap constraints.
// The pkg directory is organized into three areas:
//
//  1. Engine - solver, optimizer and geometry ([vpsc], [descent], [overlap], [layout])
//  2. Serialization and output - file formats and rendering ([graph], [render])
//  3. Orchestration - defaults, caching and hooks ([pipeline], [cache], [observability])
//
// # Architecture
//
// The data flow of one layout:
//
//	graph file (JSON, YAML, TOML)
//	         ↓
//	    [graph] package (decode, validate, resolve ids)
//	         ↓
//	    [layout] package (phases: unconstrained → user constraints → overlaps)
//	         ↓            uses [shortestpath], [descent], [overlap], [pack]
//	    [graph.Result] (centres and group bounds)
//	         ↓
//	    [render] package (DOT, SVG) or [graph] encoders
//
// # Quick Start
//
//	g, _ := graph.ReadGraphFile("network.yaml")
//	in, _ := g.ToLayout(800, 600)
//
//	l, _ := layout.New(in, layout.Config{Width: 800, Height: 600, AvoidOverlaps: true})
//	_ = l.Start(ctx, layout.Iterations{Unconstrained: 10, UserConstraints: 15, AllConstraints: 20}, false, true)
//
//	res, _ := graph.NewResult(g, l)
//	fmt.Println(res)
//
// # Main Packages
//
// ## Engine
//
// [rbtree] - Red-black tree with bidirectional iterators, used as the scan
// line of the non-overlap constraint generator.
//
// [vpsc] - Active-set solver for separation constraints on one axis. Blocks
// of rigidly linked variables merge and split until every satisfiable
// constraint holds; contradictions are flagged, never fatal.
//
// [shortestpath] - Pairing heap and Dijkstra over undirected weighted links,
// including a bend-penalized path search.
//
// [descent] - Stress majorization integrated with Runge-Kutta steps, with
// per-axis projection, locks and pluggable energy terms such as grid snap.
//
// [geom] - Axis-aligned rectangles.
//
// [overlap] - Scan-line generation of non-overlap and group containment
// constraints, the per-axis projection used by descent, and standalone
// overlap removal.
//
// [linklength] - Symmetric difference and Jaccard link length heuristics,
// strongly connected components and flow constraints.
//
// [pack] - Detection and packing of disconnected components.
//
// [layout] - The orchestrator: phases, ticking, pinning and lifecycle events.
//
// ## Serialization and Output
//
// [graph] - Id-based graph, result and rectangle formats in JSON, YAML and TOML.
//
// [render] - Graphviz DOT export with pinned positions and SVG rendering.
//
// ## Orchestration
//
// [pipeline] - Load → layout → render with validated options, used by the CLI.
//
// [cache] - In-memory result cache and key derivation.
//
// [observability] - Hook interfaces for layout, render and cache events.
//
// [errors] - Structured errors with codes.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/vpsc/...       # Specific package
//	go test -run Example ./...   # Examples only
//	go test -short ./...         # Skip SVG rendering
//
// [rbtree]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/rbtree
// [vpsc]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/vpsc
// [shortestpath]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/shortestpath
// [descent]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/descent
// [geom]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/geom
// [overlap]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/overlap
// [linklength]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/linklength
// [pack]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/pack
// [layout]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/layout
// [graph]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/graph
// [graph.Result]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/graph#Result
// [render]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/cache
// [observability]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/observability
// [errors]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/buildinfo
package pkg
