// Package health provides liveness and readiness endpoints for processes
// that serve live configuration.
//
// # Endpoints
//
//   - /health: liveness, 200 while the process runs
//   - /ready: readiness, 200 only when every registered check passes
//   - /version: build information
//
// # Usage
//
//	checker := health.New(2 * time.Second)
//
//	reload := health.NewReloadCheck(10 * time.Minute)
//	store := config.NewStore("gui", loader, config.WithObserver(reload))
//	checker.RegisterCheck("config.gui", reload.Check)
//
//	mux := http.NewServeMux()
//	health.Register(mux, checker, version, commit, buildDate)
//
// A ReloadCheck reports not ready until the store has published its first
// snapshot, and again whenever the latest reload attempt was rejected. The
// store keeps serving its previous snapshot in that case; readiness tells an
// operator that the file on disk is not what is being served.
package health
