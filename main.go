package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/km-arc/go-registry/framework/app"
	"github.com/km-arc/go-registry/framework/container"
	gohttp "github.com/km-arc/go-registry/framework/http"
	"github.com/km-arc/go-registry/framework/routing"
	"go.uber.org/zap"
)

func main() {
	application, err := app.New() // loads .env automatically
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap: %v\n", err)
		os.Exit(1)
	}

	// ── Demo services ────────────────────────────────────────────────────────

	// one clock for the whole process
	must(application.RegisterSingleton("clock", func(...any) (any, error) {
		return time.Now, nil
	}, "time"))

	// one id per request scope
	must(application.RegisterScoped("request.id", func(...any) (any, error) {
		return container.MustResolve[func() time.Time](application.Container, "clock")().Format("150405.000000"), nil
	}, "req"))

	// built fresh for every call, with arguments
	must(application.RegisterFactory("greeter", func(args ...any) (any, error) {
		name := "stranger"
		if len(args) > 0 {
			if s, ok := args[0].(string); ok && s != "" {
				name = s
			}
		}
		return "Hello, " + name + "!", nil
	}))

	// ── Routes ───────────────────────────────────────────────────────────────

	r := application.Router()
	r.Middleware(gohttp.WithScope(application.Container))

	r.Get("/hello/{name}", func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)
		scope := gohttp.ScopeFrom(req)

		greeting, err := container.Resolve[string](scope, "greeter", routing.Param(req, "name"))
		if err != nil {
			res.Error(http.StatusInternalServerError, err.Error())
			return
		}
		id, err := container.Resolve[string](scope, "req")
		if err != nil {
			res.Error(http.StatusInternalServerError, err.Error())
			return
		}
		res.Success(map[string]any{"greeting": greeting, "request_id": id})
	})

	if err := application.Run(); err != nil {
		application.Logger().Fatal("server stopped", zap.Error(err))
	}
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "register: %v\n", err)
		os.Exit(1)
	}
}
