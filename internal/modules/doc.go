// Package modules contains the self-contained features of the app.
//
// Each subdirectory is a module that implements the `module.Module` interface
// and mounts its routes on the gated /app group. Modules are listed in
// `internal/app/modules.go`; the server registers all of them before booting any.
package modules
