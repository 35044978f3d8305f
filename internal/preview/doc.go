// Package preview serves descriptor documents as HTML pages for local
// development.
//
// Every request decodes and builds the document again, so the page always
// reflects the file on disk. When hot reload is enabled the server watches
// the document directory and tells connected browsers to reload over a
// WebSocket.
//
// # Routes
//
//	GET /              index of documents
//	GET /view/{path}   document rendered in a page shell
//	GET /raw/{path}    document markup only
//	GET /healthz       liveness probe
//	GET /metrics       Prometheus metrics, when a gatherer is configured
//	GET /__reload      reload WebSocket, when hot reload is enabled
//
// # Usage
//
//	srv := preview.New(preview.Options{
//	    Dir:       "pages",
//	    Registry:  reg,
//	    HotReload: true,
//	})
//	err := srv.ListenAndServe(ctx, "localhost:3100")
package preview
