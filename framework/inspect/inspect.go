// Package inspect exposes a container's registrations over HTTP.
//
// Mounted under a prefix (default "/_registry"):
//
//	GET    /                  summary counts
//	GET    /names             every key, primary names and aliases
//	GET    /services          one snapshot per registration (?lifetime=scoped)
//	GET    /services/{name}   snapshot by primary name or alias
//	DELETE /services/{name}   remove the registration and its aliases
package inspect

import (
	"net/http"
	"strings"

	"github.com/km-arc/go-registry/framework/container"
	gohttp "github.com/km-arc/go-registry/framework/http"
	"github.com/km-arc/go-registry/framework/http/validation"
	"github.com/km-arc/go-registry/framework/routing"
	"go.uber.org/zap"
)

// Summary is the body of GET {prefix}/.
type Summary struct {
	Services      int            `json:"services"`
	Registrations int            `json:"registrations"`
	Lifetimes     map[string]int `json:"lifetimes"`
}

// Inspector serves read and remove endpoints for one container.
type Inspector struct {
	c   *container.Container
	log *zap.Logger
}

// New returns an Inspector over c. A nil logger is replaced by a no-op one.
func New(c *container.Container, log *zap.Logger) *Inspector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inspector{c: c, log: log}
}

// Mount registers the inspector routes on r under prefix.
// An empty prefix or "/" mounts them at the router root.
func (i *Inspector) Mount(r *routing.Router, prefix string) {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		r.Group(i.Routes)
		return
	}
	r.Prefix(prefix, i.Routes)
}

// Routes registers the inspector routes on r without a prefix.
func (i *Inspector) Routes(r *routing.Router) {
	r.Get("/", i.summary)
	r.Get("/names", i.names)
	r.Get("/services", i.list)
	r.Get("/services/{name}", i.show)
	r.Delete("/services/{name}", i.remove)
}

// ── Handlers ─────────────────────────────────────────────────────────────────

func (i *Inspector) summary(w http.ResponseWriter, _ *http.Request) {
	infos := i.c.AllServiceInfo()

	counts := make(map[string]int, len(container.Lifetimes()))
	for _, l := range container.Lifetimes() {
		counts[l.String()] = 0
	}
	for _, info := range infos {
		counts[info.Lifetime.String()]++
	}

	gohttp.NewResponse(w).Success(Summary{
		Services:      len(i.c.Services()),
		Registrations: len(infos),
		Lifetimes:     counts,
	})
}

func (i *Inspector) names(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	res := gohttp.NewResponse(w)

	v := validation.Make(req.QueryAll(), validation.Rules{
		"prefix": "nullable|max:255|alpha_dash",
	})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	keys := i.c.Services()
	if p := req.Query("prefix"); p != "" {
		filtered := keys[:0]
		for _, k := range keys {
			if strings.HasPrefix(k, p) {
				filtered = append(filtered, k)
			}
		}
		keys = filtered
	}
	res.Collection(keys, len(keys))
}

func (i *Inspector) list(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	res := gohttp.NewResponse(w)

	v := validation.Make(req.QueryAll(), validation.Rules{
		"lifetime": "nullable|in:" + lifetimeNames(),
	})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	raw := req.Query("lifetime")
	if raw == "" {
		infos := i.c.AllServiceInfo()
		res.Collection(infos, len(infos))
		return
	}

	// validated above
	l, _ := container.ParseLifetime(raw)
	infos := make([]container.ServiceInfo, 0)
	for _, name := range i.c.ServicesByLifetime(l) {
		if info, ok := i.c.ServiceInfo(name); ok {
			infos = append(infos, info)
		}
	}
	res.Collection(infos, len(infos))
}

func (i *Inspector) show(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	name, ok := i.nameParam(res, r)
	if !ok {
		return
	}

	info, found := i.c.ServiceInfo(name)
	if !found {
		res.ServiceNotFound(name)
		return
	}
	res.Success(info)
}

func (i *Inspector) remove(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	res := gohttp.NewResponse(w)
	name, ok := i.nameParam(res, r)
	if !ok {
		return
	}

	if !i.c.Remove(name) {
		res.ServiceNotFound(name)
		return
	}
	i.log.Info("service removed over http",
		zap.String("service", name),
		zap.String("method", req.Method()),
		zap.String("path", req.Path()),
		zap.String("remote", r.RemoteAddr),
	)
	res.NoContent()
}

// nameParam validates the {name} route parameter, writing a 422 on failure.
func (i *Inspector) nameParam(res *gohttp.Response, r *http.Request) (string, bool) {
	name := gohttp.NewRequest(r).RouteParam("name")
	v := validation.Make(map[string]string{"name": name}, validation.Rules{
		"name": `required|max:255|regex:^\S+$`,
	})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return "", false
	}
	return name, true
}

func lifetimeNames() string {
	all := container.Lifetimes()
	names := make([]string, len(all))
	for i, l := range all {
		names[i] = l.String()
	}
	return strings.Join(names, ",")
}
