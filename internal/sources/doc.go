// Package sources defines the contract shared by the upstream data
// adapters: the ownership and progress source interfaces, the credential
// snapshot, a common HTTP getter, and the failure taxonomy the fallback
// chain classifies against.
//
// The concrete adapters live in the webapi, community, and catalog
// subpackages.
package sources
