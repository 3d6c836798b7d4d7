// Package schemagraph assembles schema.org structured data into JSON-LD
// documents: typed pieces, a reference-checked graph, pluggable data
// providers, a layered invalidating cache, and extension points for the
// hosting application.
//
// # Architecture
//
// A generation pass flows through a small set of collaborators, all
// injected, none global:
//
//   - schema: the atomic Piece (id, type, ordered properties, tracked
//     references) and the tagged Value union its properties hold.
//   - graph: the ordered piece collection, filter stages, reference
//     integrity checks, and JSON-LD serialization.
//   - provider: the Provider contract and the priority-ordered registry
//     resolving which providers apply to a context.
//   - schematype: schema.org type registrations binding generators,
//     required/allowed property sets, and custom validators.
//   - validate: structural, shape, and format validation of finished
//     schema objects.
//   - cache: the layered request cache (memo, backing store, metadata)
//     with glob-pattern invalidation; stores include an in-memory map and
//     a NATS JetStream KV bucket.
//   - hook: the filter/action dispatcher external code extends through.
//   - content: the generation context and the black-box content source
//     contract supplying posts, terms, and site identity.
//   - manager: the orchestrator tying everything together.
//
// # Usage
//
//	dispatcher := hook.NewRegistry()
//	registry := provider.NewRegistry(dispatcher)
//	providers.Register(registry, source)
//
//	types := schematype.NewRegistry()
//	providers.RegisterTypes(types)
//	m, _ := manager.New(manager.Config{
//		Providers:  registry,
//		Types:      types,
//		Validator:  validate.New(types),
//		Dispatcher: dispatcher,
//	})
//
//	g, _ := m.GenerateGraph(ctx, content.NewContext(content.KindHome), nil)
//	document, _ := g.ToJSON()
//
// One failing provider never aborts a pass, cache store failures degrade
// to misses, and invalid schemas are suppressed from output rather than
// published.
package schemagraph
