package scope

// Context identifies which override variant of a configuration applies.
// An empty DomainID means global. LanguageID only has meaning together with
// a DomainID.
type Context struct {
	DomainID   string
	LanguageID string
}

// Global is the empty context.
var Global = Context{}

// New returns a normalized context.
func New(domainID, languageID string) Context {
	return Context{DomainID: domainID, LanguageID: languageID}.Normalize()
}

// Normalize drops a language that has no domain.
func (c Context) Normalize() Context {
	if c.DomainID == "" {
		c.LanguageID = ""
	}
	return c
}

// IsGlobal reports whether c selects no domain.
func (c Context) IsGlobal() bool {
	return c.DomainID == ""
}

// CacheSuffix returns the domain id followed by the language id, or "" for
// the global context.
func (c Context) CacheSuffix() string {
	c = c.Normalize()
	return c.DomainID + c.LanguageID
}

func (c Context) String() string {
	c = c.Normalize()
	switch {
	case c.DomainID == "":
		return "global"
	case c.LanguageID == "":
		return c.DomainID
	default:
		return c.DomainID + "/" + c.LanguageID
	}
}

// Selection is an explicit context choice supplied by the caller for a
// single operation, e.g. from request parameters.
type Selection struct {
	DomainID   string
	LanguageID string
}
