// Package environment names the deployment environments the service knows
// about and normalizes the APP_ENV setting into one of them.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	if env.IsProduction() {
//	    // json logs, info level
//	}
package environment
