// Package scope resolves the active configuration context: the selected
// domain and, optionally, language that configuration reads and writes are
// redirected to.
//
// A [Resolver] holds the long-lived collaborators (session store, entity
// lookup, remember setting). Each logical operation, such as one inbound
// request or one CLI invocation, calls [Resolver.Begin] and works against
// the returned [Operation]. The operation memoizes its context; nothing is
// cached across operations.
//
// Resolution precedence, highest first:
//
//  1. a context set on the operation with [Operation.SetContext]
//  2. the explicit [Selection] passed to Begin
//  3. the remembered session context, only when remembering is enabled
//  4. the empty (global) context
package scope
