package githubapi

import "errors"

var (
	// ErrNotFound is terminal: the account or resource does not exist.
	ErrNotFound = errors.New("github resource not found")

	// ErrRetriesExhausted means every attempt failed. Callers treat it as
	// "no data", never as fatal.
	ErrRetriesExhausted = errors.New("github request failed after all attempts")

	// ErrGraphQuery marks any failure of a GraphQL request, including a 200
	// response carrying an errors array.
	ErrGraphQuery = errors.New("github graphql query failed")

	// ErrDecode means a successful response could not be parsed.
	ErrDecode = errors.New("github response could not be decoded")
)
