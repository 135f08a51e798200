// Package environment carries the deployment environment (development,
// staging, production) through request contexts.
//
//	env, err := environment.Parse(cfg.Env)
//	if err != nil {
//		return err
//	}
//	router.Use(environment.Middleware(env))
//
// The JSON error handler reads it to decide whether 5xx responses may carry
// the internal error text.
package environment
