package routes

import (
	"fmt"

	"github.com/go-chi/chi/v5"

	"github.com/JRomainG/TGVMaxBot/internal/httpserver/deps"
)

// Registrar mounts a group of routes on the router.
type Registrar func(r chi.Router, d deps.Deps)

type group struct {
	name string
	reg  Registrar
}

var groups []group

// Register adds a route group from an init function. Groups are mounted in
// registration order and a name may only be registered once.
func Register(name string, reg Registrar) {
	for _, g := range groups {
		if g.name == name {
			panic(fmt.Sprintf("routes: group %q registered twice", name))
		}
	}
	groups = append(groups, group{name: name, reg: reg})
}

// Names lists the registered groups
func Names() []string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.name)
	}
	return names
}

// RegisterAll mounts every group. Called once from NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, g := range groups {
		g.reg(r, d)
	}
}
