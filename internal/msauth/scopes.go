package msauth

// DefaultScopes is the single fixed permission requested for every
// acquisition: the default-scope grant covering the whole Graph mail
// surface. Tokens are cached per authority and scope, so keeping one
// scope keeps the silent cache effective.
var DefaultScopes = []string{"https://graph.microsoft.com/.default"}
