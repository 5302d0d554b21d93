package vars

// Option configures a Substituter.
type Option func(*Substituter)

// WithEnvLookup sets the environment lookup function. A nil lookup is
// ignored.
//
// The function receives a clean variable name and returns its value; an
// empty return value means the variable is unset, matching os.Getenv.
//
// Default: os.Getenv
//
// Example:
//
//	env := map[string]string{"HOST": "db.internal"}
//	sub := vars.NewSubstituter(vars.WithEnvLookup(func(name string) string {
//	    return env[name]
//	}))
func WithEnvLookup(lookup func(name string) string) Option {
	return func(s *Substituter) {
		if lookup != nil {
			s.lookupEnv = lookup
		}
	}
}

// WithMaxExpansions sets the cap on splices a single call may perform
// before failing with ErrExpansionLimit. Values below 1 are ignored.
//
// Default: DefaultMaxExpansions
//
// Example:
//
//	sub := vars.NewSubstituter(vars.WithMaxExpansions(10))
func WithMaxExpansions(n int) Option {
	return func(s *Substituter) {
		if n > 0 {
			s.maxExpansions = n
		}
	}
}
