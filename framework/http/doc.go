// Package http provides Laravel-compatible request and response helpers
// used by the registry inspector.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	lifetime := req.Query("lifetime", "")
//	all      := req.QueryAll()     // map[string]string
//	name     := req.RouteParam("name")
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(info)                 // 200 {"data": ...}
//	res.Collection(infos, len(infos)) // 200 {"data": [...], "meta": {"count": n}}
//	res.ServiceNotFound("cache")      // 404 {"message": ...}
//	res.NoContent()                // 204
//	res.ValidationError(v.Errors()) // 422 {"errors": {...}}
//
// # Request scope
//
//	r.Middleware(gohttp.WithScope(app.Container))
//
//	id, err := gohttp.ScopeFrom(req).Get("request.id")
package http
