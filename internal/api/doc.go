// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts the slide host page's calls to the
// quiz, formula, interaction and assessment services.
package api
