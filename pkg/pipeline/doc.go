// Package pipeline composes the request-time security stages into chi
// middleware: bearer authentication, tenant context resolution, minimum
// role enforcement, and post-handler audit recording.
//
// Stages are ordered and short-circuiting. A request that fails
// authentication never reaches tenant resolution; a request denied by
// RequireRole never reaches the handler and never produces an audit
// entry. Setting the provider to "none" disables every stage, which keeps
// local development possible without an identity provider.
//
// Usage:
//
//	p := pipeline.New(cfg, tokenResolver, tenantResolver,
//		tenant.NewHeaderResolver(""), recorder)
//
//	r := chi.NewRouter()
//	r.Use(p.Authenticate)
//	r.Use(p.ResolveTenant)
//
//	r.With(
//		p.RequireRole(rbac.RoleAdmin),
//		p.Audit(audit.ActionDelete, "project", pipeline.WithResourceIDParam("id")),
//	).Delete("/projects/{id}", deleteProject)
//
// Audit entries are assembled from the request context: actor from the
// resolved principal, tenant id from the tenant context, request id from
// the requestid middleware when present. A plain audit.NewRecorder needs
// no extractor options to receive complete entries.
//
// Failures render through a replaceable ErrorHandler. The default handler
// maps causes to coarse status codes and fixed bodies so responses never
// reveal whether a tenant exists or why a token was rejected.
package pipeline
