// Package cert issues the self-signed certificates the operator hands to
// components that must serve HTTPS inside the cluster.
//
// A bundle is a throwaway root CA plus one leaf certificate signed by it.
// The CA key is never stored: when the leaf nears expiry a new bundle is
// generated and the secret is rewritten. Consumers that need to trust the
// leaf read ca.crt from the same secret.
package cert
