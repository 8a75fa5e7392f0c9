// Package zohoclient provides the entry point for constructing a Zoho Projects
// client that implements the zoho.Client interface.
//
// New validates the configuration, picks the credential source, builds the
// retrying HTTP transport and, when only names are configured, looks up the
// portal and project ids. Lookups are stored in zoho.Config.Cache, or in a
// process-wide memory cache when none is set, so each name is resolved once per
// API root.
//
// Credentials are chosen in this order:
//
//  1. Config.TokenProvider, used as is.
//  2. Config.AccessToken without a ClientID, used until it expires.
//  3. Config.ClientID and ClientSecret. A RefreshToken is redeemed when the
//     access token expires. Without one the browser based authorization code
//     flow runs once, through Config.CodeSupplier or a local callback listener
//     on the redirect URL.
//
// Refreshed tokens are handed to Config.TokenPersister when one is set.
package zohoclient
