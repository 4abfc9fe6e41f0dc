// Package listings provides the HTTP client and payload decoder for the Mars
// real-estate API.
//
// # Overview
//
// The API exposes a single read-only endpoint:
//
//	GET {base_url}/realestate?filter=rent|buy|all
//
// It answers with a JSON array of listing objects:
//
//	[{"id":"424905","img_src":"http://.../a.jpg","price":8000000,"type":"rent"}]
//
// # Architecture
//
//   - types.go: Property, Type, and Filter plus derived display helpers
//   - decode.go: strict payload decoding and the matching encoder
//   - client.go: HTTP client implementation and request handling
//   - errors.go: NetworkError and DecodeError
//
// # Client Usage
//
// Build a client once and inject it where it is needed:
//
//	client, err := listings.NewClient("https://mars.udacity.com/",
//		listings.WithTimeout(10*time.Second))
//	if err != nil {
//		return err
//	}
//	props, err := client.FetchProperties(ctx, listings.FilterRent)
//
// The base URL keeps its path, so "http://host/api" resolves the endpoint as
// "http://host/api/realestate". A bare host:port gets an http:// scheme.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: marsview/0.1 headers
//   - Carry a fresh X-Request-ID (UUID) that also appears in debug logs
//   - Have a 10-second timeout unless WithTimeout says otherwise
//
// # Error Handling
//
// Failures come back as one of two types, inspectable with errors.As:
//
//   - *NetworkError: connection failure, timeout, non-2xx status, body read
//     failure. StatusCode is set when the server answered.
//   - *DecodeError: malformed JSON, a non-array payload, a missing required
//     field, a non-integer price, or an unknown listing type. Index and
//     Field locate the offending element when possible.
//
// A payload with one bad element is rejected as a whole.
//
// # Thread Safety
//
// The Client is safe for concurrent use.
package listings
