// Package publish implements the version publishing pipeline.
//
// A run builds the site, promotes the output into <root>/<version> and then
// refreshes the convenience metadata around it: the latest alias, the
// versions.json manifest and the root redirect page. Steps run in a fixed
// order. Fatal steps abort the run; degraded steps log a warning and the run
// continues. Nothing is retried or rolled back, so a failed degraded step can
// leave the alias or manifest out of step with the version directories until
// the next publish.
package publish
