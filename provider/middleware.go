package provider

// Middleware wraps a RequestResponse provider. The catalog lookup is built
// as a stack of these: logging, tracing and metrics around the simulated
// backend, plus retry on the one-shot -query path.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares so that the first one sees a lookup first
// and its result last: Chain(a, b)(p) is a(b(p)).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(p RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			if middlewares[i] == nil {
				continue
			}
			p = middlewares[i](p)
		}
		return p
	}
}
