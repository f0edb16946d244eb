// Package contrast is the driven adapter for the application-security
// platform's REST API.
//
// Each listing endpoint is exposed as a driven.PageSource so the search
// engine can page through it; routes and agent sessions are single-shot
// lookups. The client authenticates with the account's API key plus a
// base64 username:service-key pair, throttles requests with a token bucket
// and maps HTTP failures onto domain errors. It never retries.
package contrast
