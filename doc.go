/*
Package spadev serves pre-built "Single Page Applications" (SPAs) for local
development, supporting client-side DOM routing.

Request paths are classified by Classify as either a StaticAsset or an
SPAFallback route: static assets live below the reserved "/assets/" and
"/packages/" prefixes or carry one of the well-known asset file extensions,
such as ".js" or ".woff2", and get served literally. Everything else is an
application route and gets the SPA's index document instead, so that
bookmarking deep links or reloading the SPA on a route other than "/" works.

The SPAHandler type implements http.Handler to serve the SPA and its static
resources from any fs.FS. WithCORS adds permissive CORS headers to all
responses, including error responses. Server finally ties things together,
serving the bundle found in "build/web" below the working directory on port
8082, unless configured otherwise through SPADEV_* environment variables.
*/
package spadev
