/*
The readmecat library.

This library renders profile and repository README documents by substituting
{{service:param}} placeholders with live values fetched from the GitHub API.
Each distinct API resource is fetched at most once per run, and a
placeholder that cannot be resolved degrades to a visible "N/A: <reason>"
value instead of failing the render, so one broken lookup never costs you
the whole document.

A simple example of how you might use this library to render a single
document against the public API and write the result to disk can be found
in doc_test.go.
*/
package readmecat
