// Package domaincfg layers per-domain and per-language overrides over a
// plain configuration store.
//
// Configuration objects live in a [storage.Storage] under base names such
// as "system.site". When an operation runs in the context of a domain (and
// optionally a language), reads are redirected to the most specific stored
// variant and writes are redirected to a context-qualified name:
//
//	domain.config.<domain>.<language>.<base>
//	domain.config.<domain>.<base>
//
// # Basic Usage
//
//	svc, err := domaincfg.New(domaincfg.Config{}, storage.NewMemory())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	op := svc.Begin(ctx, &scope.Selection{DomainID: "d1"})
//	site, err := op.GetEditable(ctx, "system.site")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = site.Set("name", "Domain one")
//	if _, err := site.Save(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Context
//
// Each call to [Service.Begin] starts an operation. The active context is
// resolved once per operation: an explicit selection wins, then the
// remembered session context when [Config.RememberContext] is set, then
// the global context. [Operation.SetContext] switches context mid-operation
// and re-resolves every editable object already handed out.
//
// # Overridable Names
//
// [Config.AllowList] and [Config.DenyList] hold glob patterns where "*"
// matches any sequence of characters, dots included. A deny-listed name
// is never overridden. When the allow list is non-empty only matching
// names are overridden. The entries of [naming.DefaultDenyList] are always
// denied.
package domaincfg
