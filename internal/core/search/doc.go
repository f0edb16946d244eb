// Package search implements the bounded, early-terminating page search shared
// by every listing operation.
//
// An Engine pulls pages from a driven.PageSource one at a time, keeps the
// records accepted by a Predicate, and stops as soon as it holds the number
// of matches the caller asked for. Two limits bound the work regardless of
// the requested count:
//
//   - MaxPages: full pages scanned before giving up
//   - MaxItems: records held in memory
//
// A fetch error or a cancelled context ends the search immediately. The
// records gathered so far are still returned, with HadError set; fetches are
// never retried. Stopping on a limit sets Truncated instead. Either way the
// caller gets a Result and must surface its Advisories.
//
// # Example Usage
//
//	engine := search.NewEngine("vulnerabilities", source, limits)
//	match := search.NewSessionPredicate[domain.Vulnerability](domain.SessionFilter{
//	    MetadataName:  "branch",
//	    MetadataValue: "main",
//	})
//	res := engine.Search(ctx, filter, match, 50)
//	for _, msg := range res.Advisories() {
//	    // show msg to the user
//	}
package search
