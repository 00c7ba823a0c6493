package domain

// RequiredRole is the privilege a route declares. RequireNone marks public routes.
type RequiredRole string

const (
	RequireNone  RequiredRole = "none"
	RequireUser  RequiredRole = "user"
	RequireAdmin RequiredRole = "admin"
)

const (
	HomePath  = "/"
	LoginPath = "/login"
)

// Route is a navigable view and the role it requires.
type Route struct {
	Path         string       `json:"path"`
	Name         string       `json:"name"`
	RequiredRole RequiredRole `json:"requiredRole"`
	// LoginRoute marks the sign-in views; a signed-in subject is sent home.
	LoginRoute bool `json:"loginRoute,omitempty"`
	// Unknown marks a path that matched no declaration.
	Unknown bool `json:"-"`
}

// Outcome is the result kind of an access decision.
type Outcome string

const (
	OutcomeAllow    Outcome = "allow"
	OutcomeRedirect Outcome = "redirect"
)

// Decision is what the access guard tells the view layer to do.
type Decision struct {
	Outcome  Outcome `json:"outcome"`
	Location string  `json:"location,omitempty"`
}

// Allow is the decision that lets navigation through.
func Allow() Decision { return Decision{Outcome: OutcomeAllow} }

// RedirectTo is the decision that sends navigation elsewhere.
func RedirectTo(path string) Decision {
	return Decision{Outcome: OutcomeRedirect, Location: path}
}

// Allowed reports whether the decision lets navigation through.
func (d Decision) Allowed() bool { return d.Outcome == OutcomeAllow }
