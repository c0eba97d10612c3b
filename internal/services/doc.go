// Package services implements the HTTP collaborators of the library CLI.
//
// # Embed Sync
//
// [EmbedService] pushes the serialized public library to the embed endpoint,
// authenticating with a static bearer key from config.
//
// # Update Check
//
// [ReleaseService] queries the GitHub releases API for the latest published
// version and compares it against the running build.
//
// # Mapper Lookup
//
// [OsuWebService] scrapes an osu! user profile page for the numeric user id
// and past usernames. Profile pages embed their data as JSON in a
// .js-react[data-initial-data] attribute, so no API key is needed. Requests
// are rate limited to stay polite.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrMissingAPIKey] : embed sync attempted without a key
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrUserNotFound] : profile page has no embedded user data
package services
